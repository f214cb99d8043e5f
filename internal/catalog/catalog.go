/*
 * Copyright (c) 2026, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package catalog is the immutable table of profile fields a developer can request,
// with the copy shown to the user for each of them.
package catalog

import "strings"

// Category groups profile fields.
type Category string

const (
	CategoryBasic    Category = "basic"
	CategoryPersonal Category = "personal"
	CategoryBusiness Category = "business"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryBasic, CategoryPersonal, CategoryBusiness}

// Field identifiers.
const (
	FieldProfilePhoto        = "profilePhoto"
	FieldEmail               = "email"
	FieldName                = "name"
	FieldPhoneNumber         = "phoneNumber"
	FieldDateOfBirth         = "dateOfBirth"
	FieldGender              = "gender"
	FieldPhysicalAddress     = "physicalAddress"
	FieldMailingAddress      = "mailingAddress"
	FieldBusinessName        = "businessName"
	FieldBusinessEmail       = "businessEmail"
	FieldBusinessPhoneNumber = "businessPhoneNumber"
	FieldNumberOfEmployees   = "numberOfEmployees"
	FieldDateOfFoundation    = "dateOfFoundation"
)

// Fallback copy for fields that have no catalog entry.
const (
	FallbackReason      = "Used for account functionality"
	FallbackDescription = "This information is required for the application to function properly."
	FallbackExamples    = "This information is used to provide and improve our services."
	FallbackSecurity    = "Your data is encrypted and stored securely following industry best practices."
)

// HTML input types.
const (
	InputText  = "text"
	InputDate  = "date"
	InputEmail = "email"
	InputTel   = "tel"
	InputFile  = "file"
)

// Description is the user-facing explanation of why a field is requested.
type Description struct {
	Reason      string `json:"reason"`
	Description string `json:"description"`
	Security    string `json:"security"`
	Importance  string `json:"importance,omitempty"`
	Examples    string `json:"examples"`
}

type entry struct {
	label    string
	category Category
	Description
}

// Section is the heading copy of a category.
type Section struct {
	Title       string
	Description string
}

var sections = map[Category]Section{
	CategoryBasic:    {Title: "Basic Information", Description: "Essential information for account authentication"},
	CategoryPersonal: {Title: "Personal Information", Description: "Personal details for enhanced service delivery"},
	CategoryBusiness: {Title: "Business Information", Description: "Business information for professional services"},
}

var fields = map[string]entry{
	FieldEmail: {label: "Email Address", category: CategoryBasic, Description: Description{
		Reason:      "Account Authentication & Communication",
		Description: "Your email address is essential for account verification, security notifications, and important updates about your account activity.",
		Security:    "Used for secure login and password recovery, encrypted in transit and at rest",
		Importance:  "High",
		Examples:    "Used to send verification links, security alerts, and account updates",
	}},
	FieldName: {label: "Full Name", category: CategoryBasic, Description: Description{
		Reason:      "Personalized User Experience",
		Description: "Your name helps us personalize your experience and ensures proper account attribution in our systems.",
		Security:    "Stored securely and never shared with third parties without consent",
		Importance:  "Medium",
		Examples:    "Displayed in your profile, used in communications, and for account verification",
	}},
	FieldProfilePhoto: {label: "Profile Photo", category: CategoryBasic, Description: Description{
		Reason:      "Visual Identity & Personalization",
		Description: "A profile photo helps personalize your account and makes it easily recognizable when signing in across devices.",
		Security:    "Stored securely with industry-standard encryption",
		Importance:  "Low (Optional)",
		Examples:    "Displayed on your profile and when signing in to services",
	}},
	FieldPhoneNumber: {label: "Phone Number", category: CategoryPersonal, Description: Description{
		Reason:      "Account Security & Recovery",
		Description: "Your phone number provides an additional verification layer for enhanced account security and recovery options.",
		Security:    "Used only for verification, two-factor authentication, and account recovery",
		Importance:  "Medium",
		Examples:    "Used for SMS verification codes and account recovery",
	}},
	FieldDateOfBirth: {label: "Date of Birth", category: CategoryPersonal, Description: Description{
		Reason:      "Age Verification & Compliance",
		Description: "Your date of birth helps us verify your age for compliance with age-restricted features and legal requirements.",
		Security:    "Stored securely and used only for age verification purposes",
		Importance:  "Medium",
		Examples:    "Used to verify eligibility for certain services and for age-appropriate content",
	}},
	FieldGender: {label: "Gender", category: CategoryPersonal, Description: Description{
		Reason:      "Service Personalization",
		Description: "Your gender helps us provide more relevant features and content tailored to your preferences.",
		Security:    "Stored privately and used only for personalization purposes",
		Importance:  "Low",
		Examples:    "Used for personalized recommendations and gender-specific features",
	}},
	FieldPhysicalAddress: {label: "Physical Address", category: CategoryPersonal, Description: Description{
		Reason:      "Service Delivery & Compliance",
		Description: "Your physical address enables location-based services and ensures compliance with regional regulations.",
		Security:    "Encrypted and accessed only when needed for specific functionality",
		Importance:  "Medium",
		Examples:    "Used for location-based features, shipping, and compliance with local laws",
	}},
	FieldMailingAddress: {label: "Mailing Address", category: CategoryPersonal, Description: Description{
		Reason:      "Communications & Documentation",
		Description: "Your mailing address allows us to send important physical correspondence and legal documents when necessary.",
		Security:    "Stored securely and used only for official communications",
		Importance:  "Medium",
		Examples:    "Used for sending physical mail, legal notices, and documentation",
	}},
	FieldBusinessName: {label: "Business Name", category: CategoryBusiness, Description: Description{
		Reason:      "Business Account Management",
		Description: "Your business name identifies your organization in our system and is essential for business accounts.",
		Security:    "Displayed only in business contexts and protected with enterprise-grade security",
		Importance:  "High for business accounts",
		Examples:    "Used for invoicing, business verification, and organizational features",
	}},
	FieldBusinessEmail: {label: "Business Email", category: CategoryBusiness, Description: Description{
		Reason:      "Business Communication Channel",
		Description: "Your business email serves as the primary contact point for business-related communications and account management.",
		Security:    "Protected with enhanced security protocols for business communications",
		Importance:  "High for business accounts",
		Examples:    "Used for business notifications, invoicing, and enterprise support",
	}},
	FieldBusinessPhoneNumber: {label: "Business Phone Number", category: CategoryBusiness, Description: Description{
		Reason:      "Business Verification & Support",
		Description: "Your business phone enables account verification and provides a direct contact channel for urgent matters.",
		Security:    "Used only for business verification and support communications",
		Importance:  "Medium for business accounts",
		Examples:    "Used for account verification and urgent business communications",
	}},
	FieldNumberOfEmployees: {label: "Number of Employees", category: CategoryBusiness, Description: Description{
		Reason:      "Service Optimization",
		Description: "This information helps us tailor our business services to match your organization's size and needs.",
		Security:    "Used only for service customization and never shared externally",
		Importance:  "Low",
		Examples:    "Used to recommend appropriate features and service tiers",
	}},
	FieldDateOfFoundation: {label: "Date of Foundation", category: CategoryBusiness, Description: Description{
		Reason:      "Business Profile Verification",
		Description: "This information helps verify your business's legitimacy and history, enhancing trust and security.",
		Security:    "Used only for business verification purposes",
		Importance:  "Low",
		Examples:    "Used for business verification and account security",
	}},
}

// Known reports whether field has a catalog entry.
func Known(field string) bool {
	_, ok := fields[field]
	return ok
}

// Label returns the display label of field, or field itself when unknown.
func Label(field string) string {
	if e, ok := fields[field]; ok {
		return e.label
	}
	return field
}

// Describe returns the descriptive copy of field. Unknown fields get the
// generic fallback text; Importance is left empty for them.
func Describe(field string) Description {
	if e, ok := fields[field]; ok {
		return e.Description
	}
	return Description{
		Reason:      FallbackReason,
		Description: FallbackDescription,
		Security:    FallbackSecurity,
		Examples:    FallbackExamples,
	}
}

// CategoryOf returns the category a known field belongs to.
func CategoryOf(field string) (Category, bool) {
	e, ok := fields[field]
	return e.category, ok
}

// SectionOf returns the heading copy of a category.
func SectionOf(c Category) Section {
	if s, ok := sections[c]; ok {
		return s
	}
	return Section{Title: string(c)}
}

// IsOptional reports whether field may be left blank. Only the profile photo is.
func IsOptional(field string) bool {
	return field == FieldProfilePhoto
}

// InputType returns the HTML input type used to collect field.
func InputType(field string) string {
	switch {
	case field == FieldProfilePhoto:
		return InputFile
	case strings.Contains(field, "date"):
		return InputDate
	case strings.Contains(field, "email"):
		return InputEmail
	case strings.Contains(field, "phone"), strings.Contains(field, "Phone"):
		return InputTel
	default:
		return InputText
	}
}

// Placeholder returns the input placeholder for field.
func Placeholder(field string) string {
	return "Enter your " + strings.ToLower(Label(field))
}

// IsValidCategory reports whether c is one of the three categories.
func IsValidCategory(c Category) bool {
	_, ok := sections[c]
	return ok
}
