package llm

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/ai/azopenai"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
)

type azureClient struct {
	client     *azopenai.Client
	deployment string
}

// NewAzure creates a client for an Azure OpenAI deployment.
func NewAzure(endpoint, apiKey, deployment string) (Client, error) {
	cred := azcore.NewKeyCredential(apiKey)
	client, err := azopenai.NewClientWithKeyCredential(endpoint, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("azure: create client: %w", err)
	}
	return &azureClient{client: client, deployment: deployment}, nil
}

func (c *azureClient) Complete(ctx context.Context, req *Request) (*Response, error) {
	deployment := c.deployment
	if req.Model != "" {
		deployment = req.Model
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	// The deployment API has no separate system slot in this request shape,
	// so the system prompt is folded into the user message.
	prompt := req.UserPrompt
	if req.SystemPrompt != "" {
		prompt = req.SystemPrompt + "\n\n" + req.UserPrompt
	}

	opts := azopenai.ChatCompletionsOptions{
		DeploymentName: to.Ptr(deployment),
		Messages: []azopenai.ChatRequestMessageClassification{
			&azopenai.ChatRequestUserMessage{
				Content: azopenai.NewChatRequestUserMessageContent(prompt),
			},
		},
		MaxTokens: to.Ptr(int32(maxTokens)),
	}
	if req.Temperature != 0 {
		opts.Temperature = to.Ptr(float32(req.Temperature))
	}

	resp, err := c.client.GetChatCompletions(ctx, opts, nil)
	if err != nil {
		return nil, fmt.Errorf("azure: chat completions: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == nil {
		return nil, fmt.Errorf("azure: no completion content in response")
	}

	return &Response{
		Content: *resp.Choices[0].Message.Content,
		Model:   fmt.Sprintf("azure:%s", deployment),
	}, nil
}
