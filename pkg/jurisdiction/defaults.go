package jurisdiction

// DefaultProfiles returns the built-in regulation profiles for all 50 US states.
// Dates and penalty figures reflect each statute as enacted; the dataset is
// advisory reference material, not legal text.
func DefaultProfiles() []*Profile {
	return []*Profile{
		{
			Code:            CodeAL,
			Name:            "Alabama",
			Regulations:     []string{"Alabama Data Breach Notification Act"},
			BaselineTier:    TierLow,
			Enforcement:     EnforcementModerate,
			KeyRequirements: []string{"Data breach notification within 45 days"},
			Penalties:       []string{"Up to $500,000 per breach"},
			EffectiveDate:   "2018-06-01",
			Notes:           "Basic breach notification requirements",
		},
		{
			Code:            CodeAK,
			Name:            "Alaska",
			Regulations:     []string{"Alaska Personal Information Protection Act"},
			BaselineTier:    TierLow,
			Enforcement:     EnforcementModerate,
			KeyRequirements: []string{"Data breach notification", "Reasonable security measures"},
			Penalties:       []string{"Up to $500 per violation"},
			EffectiveDate:   "2009-07-01",
			Notes:           "Standard breach notification law",
		},
		{
			Code:            CodeAZ,
			Name:            "Arizona",
			Regulations:     []string{"Arizona Data Breach Notification Law"},
			BaselineTier:    TierLow,
			Enforcement:     EnforcementModerate,
			KeyRequirements: []string{"Data breach notification within 45 days"},
			Penalties:       []string{"Up to $500,000 per breach"},
			EffectiveDate:   "2006-12-31",
			Notes:           "Basic breach notification requirements",
		},
		{
			Code:            CodeAR,
			Name:            "Arkansas",
			Regulations:     []string{"Arkansas Personal Information Protection Act"},
			BaselineTier:    TierLow,
			Enforcement:     EnforcementModerate,
			KeyRequirements: []string{"Data breach notification", "Security measures"},
			Penalties:       []string{"Up to $10,000 per violation"},
			EffectiveDate:   "2003-08-12",
			Notes:           "Standard breach notification law",
		},
		{
			Code:         CodeCA,
			Name:         "California",
			Regulations:  []string{"CCPA", "CPRA", "California Privacy Rights Act", "California Consumer Privacy Act"},
			BaselineTier: TierHigh,
			Enforcement:  EnforcementStrict,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of data sales",
				"Consent for sensitive data",
				"Data minimization",
				"Purpose limitation",
				"Right to correct inaccurate data",
			},
			Penalties:     []string{"Up to $7,500 per intentional violation", "Up to $2,500 per unintentional violation"},
			EffectiveDate: "2020-01-01",
			Notes:         "Most comprehensive state privacy law in the US",
		},
		{
			Code:         CodeCO,
			Name:         "Colorado",
			Regulations:  []string{"Colorado Privacy Act (CPA)"},
			BaselineTier: TierHigh,
			Enforcement:  EnforcementStrict,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
				"Data minimization",
				"Universal opt-out mechanism",
			},
			Penalties:     []string{"Up to $20,000 per violation"},
			EffectiveDate: "2023-07-01",
			Notes:         "Comprehensive privacy law with universal opt-out",
		},
		{
			Code:         CodeCT,
			Name:         "Connecticut",
			Regulations:  []string{"Connecticut Data Privacy Act (CTDPA)"},
			BaselineTier: TierHigh,
			Enforcement:  EnforcementStrict,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
				"Data minimization",
			},
			Penalties:     []string{"Up to $5,000 per violation"},
			EffectiveDate: "2023-07-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeDE,
			Name:         "Delaware",
			Regulations:  []string{"Delaware Personal Data Privacy Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $10,000 per violation"},
			EffectiveDate: "2025-01-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeFL,
			Name:         "Florida",
			Regulations:  []string{"Florida Digital Bill of Rights"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $50,000 per violation"},
			EffectiveDate: "2024-07-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeGA,
			Name:         "Georgia",
			Regulations:  []string{"Georgia Personal Data Privacy Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2024-07-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeHI,
			Name:         "Hawaii",
			Regulations:  []string{"Hawaii Consumer Privacy Protection Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2024-07-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeID,
			Name:         "Idaho",
			Regulations:  []string{"Idaho Consumer Privacy Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2024-07-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeIL,
			Name:         "Illinois",
			Regulations:  []string{"BIPA", "Illinois Biometric Information Privacy Act"},
			BaselineTier: TierHigh,
			Enforcement:  EnforcementStrict,
			KeyRequirements: []string{
				"Written consent for biometric data collection",
				"Disclosure of purpose and retention period",
				"Prohibition on selling biometric data",
				"Right of action for violations",
			},
			Penalties:     []string{"$1,000-$5,000 per violation"},
			EffectiveDate: "2008-10-03",
			Notes:         "Strict biometric data protection law",
		},
		{
			Code:         CodeIN,
			Name:         "Indiana",
			Regulations:  []string{"Indiana Consumer Data Protection Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2026-01-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeIA,
			Name:         "Iowa",
			Regulations:  []string{"Iowa Consumer Data Protection Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2025-01-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeKS,
			Name:         "Kansas",
			Regulations:  []string{"Kansas Consumer Privacy Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2025-07-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeKY,
			Name:         "Kentucky",
			Regulations:  []string{"Kentucky Consumer Data Protection Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2026-01-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeLA,
			Name:         "Louisiana",
			Regulations:  []string{"Louisiana Consumer Privacy Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2025-07-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeME,
			Name:         "Maine",
			Regulations:  []string{"Maine Consumer Privacy Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2025-07-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeMD,
			Name:         "Maryland",
			Regulations:  []string{"Maryland Online Data Privacy Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2025-10-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeMA,
			Name:         "Massachusetts",
			Regulations:  []string{"Massachusetts Data Privacy Law"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2025-07-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeMI,
			Name:         "Michigan",
			Regulations:  []string{"Michigan Consumer Privacy Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2025-07-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeMN,
			Name:         "Minnesota",
			Regulations:  []string{"Minnesota Consumer Data Privacy Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2025-07-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeMS,
			Name:         "Mississippi",
			Regulations:  []string{"Mississippi Consumer Data Privacy Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2025-07-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeMO,
			Name:         "Missouri",
			Regulations:  []string{"Missouri Data Protection Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2025-08-28",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeMT,
			Name:         "Montana",
			Regulations:  []string{"Montana Consumer Data Privacy Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2024-10-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeNE,
			Name:         "Nebraska",
			Regulations:  []string{"Nebraska Data Privacy Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2025-01-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeNV,
			Name:         "Nevada",
			Regulations:  []string{"Nevada Privacy of Information Collected on the Internet from Consumers Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Opt-out of data sales",
				"Privacy policy requirements",
			},
			Penalties:     []string{"Up to $5,000 per violation"},
			EffectiveDate: "2019-10-01",
			Notes:         "Limited to data sales opt-out",
		},
		{
			Code:         CodeNH,
			Name:         "New Hampshire",
			Regulations:  []string{"New Hampshire Privacy Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2025-01-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeNJ,
			Name:         "New Jersey",
			Regulations:  []string{"New Jersey Data Privacy Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2025-01-15",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeNM,
			Name:         "New Mexico",
			Regulations:  []string{"New Mexico Data Privacy Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2025-07-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeNY,
			Name:         "New York",
			Regulations:  []string{"NY SHIELD Act", "New York Privacy Act"},
			BaselineTier: TierHigh,
			Enforcement:  EnforcementStrict,
			KeyRequirements: []string{
				"Data breach notification",
				"Reasonable security measures",
				"Consumer rights (proposed)",
				"Opt-out of targeted advertising (proposed)",
			},
			Penalties:     []string{"Up to $5,000 per violation"},
			EffectiveDate: "2020-03-21",
			Notes:         "Comprehensive data security law with proposed privacy enhancements",
		},
		{
			Code:         CodeNC,
			Name:         "North Carolina",
			Regulations:  []string{"North Carolina Consumer Privacy Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2025-10-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeND,
			Name:         "North Dakota",
			Regulations:  []string{"North Dakota Consumer Data Privacy Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2025-07-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeOH,
			Name:         "Ohio",
			Regulations:  []string{"Ohio Personal Privacy Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2025-07-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeOK,
			Name:         "Oklahoma",
			Regulations:  []string{"Oklahoma Computer Data Privacy Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2025-07-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeOR,
			Name:         "Oregon",
			Regulations:  []string{"Oregon Consumer Privacy Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2024-07-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodePA,
			Name:         "Pennsylvania",
			Regulations:  []string{"Pennsylvania Consumer Privacy Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2025-07-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeRI,
			Name:         "Rhode Island",
			Regulations:  []string{"Rhode Island Data Transparency and Privacy Protection Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2025-07-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeSC,
			Name:         "South Carolina",
			Regulations:  []string{"South Carolina Consumer Privacy Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2025-07-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeSD,
			Name:         "South Dakota",
			Regulations:  []string{"South Dakota Consumer Data Privacy Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2025-07-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeTN,
			Name:         "Tennessee",
			Regulations:  []string{"Tennessee Information Protection Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2025-07-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeTX,
			Name:         "Texas",
			Regulations:  []string{"Texas Data Privacy and Security Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2024-07-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeUT,
			Name:         "Utah",
			Regulations:  []string{"Utah Consumer Privacy Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2023-12-31",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeVT,
			Name:         "Vermont",
			Regulations:  []string{"Vermont Data Broker Regulation"},
			BaselineTier: TierLow,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Data broker registration",
				"Security requirements",
				"Opt-out mechanisms",
			},
			Penalties:     []string{"Up to $5,000 per violation"},
			EffectiveDate: "2019-01-01",
			Notes:         "Limited to data broker regulation",
		},
		{
			Code:         CodeVA,
			Name:         "Virginia",
			Regulations:  []string{"Virginia Consumer Data Protection Act"},
			BaselineTier: TierHigh,
			Enforcement:  EnforcementStrict,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
				"Data minimization",
				"Purpose limitation",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2023-01-01",
			Notes:         "Comprehensive privacy law with strict enforcement",
		},
		{
			Code:         CodeWA,
			Name:         "Washington",
			Regulations:  []string{"Washington My Health My Data Act"},
			BaselineTier: TierHigh,
			Enforcement:  EnforcementStrict,
			KeyRequirements: []string{
				"Consent for health data collection",
				"Prohibition on geofencing",
				"Right to delete health data",
				"Restrictions on data sales",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2024-03-31",
			Notes:         "Strict health data protection law",
		},
		{
			Code:         CodeWV,
			Name:         "West Virginia",
			Regulations:  []string{"West Virginia Consumer Privacy Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2025-07-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeWI,
			Name:         "Wisconsin",
			Regulations:  []string{"Wisconsin Data Privacy Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2025-07-01",
			Notes:         "Comprehensive privacy law",
		},
		{
			Code:         CodeWY,
			Name:         "Wyoming",
			Regulations:  []string{"Wyoming Consumer Data Privacy Act"},
			BaselineTier: TierMedium,
			Enforcement:  EnforcementModerate,
			KeyRequirements: []string{
				"Consumer rights (access, deletion, portability)",
				"Opt-out of targeted advertising",
				"Consent for sensitive data",
			},
			Penalties:     []string{"Up to $7,500 per violation"},
			EffectiveDate: "2025-07-01",
			Notes:         "Comprehensive privacy law",
		},
	}
}

// NewStoreWithDefaults creates a store pre-populated with all 50 states.
func NewStoreWithDefaults() *Store {
	s := NewStore()
	for _, p := range DefaultProfiles() {
		_ = s.Add(p) //nolint:errcheck // defaults init, errors are structurally impossible
	}
	return s
}
