// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// PostStatus is the publication state of a draft.
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
)

// AutomationStatus records how the pipeline finished for a draft. It is
// provenance, not publication state: a completed run can still leave the
// post as a draft.
type AutomationStatus string

const (
	AutomationCompleted AutomationStatus = "completed"
	AutomationFailed    AutomationStatus = "failed"
)

// VacancyByCategory is one row of the reservation-category vacancy table.
type VacancyByCategory struct {
	Category   string `json:"category" yaml:"category"`
	TotalPosts int    `json:"totalPosts" yaml:"total_posts"`
}

// VacancyByPost is one row of the per-post vacancy table.
type VacancyByPost struct {
	PostName   string `json:"postName" yaml:"post_name"`
	TotalPosts int    `json:"totalPosts" yaml:"total_posts"`
}

// ImportantDate is a labelled date in the notice timeline. Dates are kept
// as YYYY-MM-DD strings; the model emits them that way and validation
// parses them only where it needs to compare.
type ImportantDate struct {
	Label string `json:"label" yaml:"label"`
	Date  string `json:"date" yaml:"date"`
}

// PhysicalStandardRow is one row of a physical standard table.
type PhysicalStandardRow struct {
	Category  string `json:"category" yaml:"category"`
	Height    string `json:"height,omitempty" yaml:"height,omitempty"`
	Chest     string `json:"chest,omitempty" yaml:"chest,omitempty"`
	MinWeight string `json:"minWeight,omitempty" yaml:"min_weight,omitempty"`
}

// PhysicalStandardTest groups physical standard rows by applicant group.
type PhysicalStandardTest struct {
	Male   []PhysicalStandardRow `json:"male,omitempty" yaml:"male,omitempty"`
	Female []PhysicalStandardRow `json:"female,omitempty" yaml:"female,omitempty"`
}

// PhysicalEfficiencyRow is one row of the physical efficiency table.
type PhysicalEfficiencyRow struct {
	Category string `json:"category" yaml:"category"`
	Distance string `json:"distance,omitempty" yaml:"distance,omitempty"`
	Time     string `json:"time,omitempty" yaml:"time,omitempty"`
}

// AutomationDetails is the provenance record attached to every draft the
// pipeline produces.
type AutomationDetails struct {
	DiscoveredVia         string           `json:"discoveredVia" yaml:"discovered_via"`
	SourceType            string           `json:"sourceType" yaml:"source_type"`
	VerifiedFrom          string           `json:"verifiedFrom" yaml:"verified_from"`
	OfficialPDFURL        string           `json:"officialPdfUrl,omitempty" yaml:"official_pdf_url,omitempty"`
	VerificationTimestamp time.Time        `json:"verificationTimestamp" yaml:"verification_timestamp"`
	ContentGeneratedAt    time.Time        `json:"contentGeneratedAt" yaml:"content_generated_at"`
	AutomationVersion     string           `json:"automationVersion" yaml:"automation_version"`
	AIModelUsed           string           `json:"aiModelUsed" yaml:"ai_model_used"`
	RunID                 string           `json:"runId,omitempty" yaml:"run_id,omitempty"`
	IdempotencyKey        string           `json:"idempotencyKey" yaml:"idempotency_key"`
	ConfidenceScore       float64          `json:"confidenceScore" yaml:"confidence_score"`
	CompletenessScore     float64          `json:"completenessScore" yaml:"completeness_score"`
	AutomationStatus      AutomationStatus `json:"automationStatus" yaml:"automation_status"`
	Issues                []string         `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// PostDraft is the candidate content record produced by generation,
// finalized by validation, and persisted by the agent. The JSON tags match
// the schema the model is instructed to emit.
type PostDraft struct {
	Title            string `json:"title" yaml:"title"`
	Slug             string `json:"slug" yaml:"slug"`
	ShortDescription string `json:"shortDescription" yaml:"short_description"`
	FullDescription  string `json:"fullDescription" yaml:"full_description"`

	// Category is the category name as emitted by the model (usually
	// null); CategoryID is the mapped repository category, set by the
	// agent just before persistence.
	Category   string `json:"category,omitempty" yaml:"category,omitempty"`
	CategoryID int64  `json:"-" yaml:"category_id,omitempty"`

	Organization string `json:"organization,omitempty" yaml:"organization,omitempty"`
	PostDate     string `json:"postDate,omitempty" yaml:"post_date,omitempty"`
	LastDate     string `json:"lastDate,omitempty" yaml:"last_date,omitempty"`

	Qualification            string `json:"qualification,omitempty" yaml:"qualification,omitempty"`
	AgeLimit                 string `json:"ageLimit,omitempty" yaml:"age_limit,omitempty"`
	Fees                     string `json:"fees,omitempty" yaml:"fees,omitempty"`
	EducationalQualification string `json:"educationalQualification,omitempty" yaml:"educational_qualification,omitempty"`

	// TotalPosts is nil when the source text does not state a vacancy
	// count. The model is told to use null rather than invent one.
	TotalPosts *int `json:"totalPosts,omitempty" yaml:"total_posts,omitempty"`

	CategoryWiseVacancy []VacancyByCategory `json:"categoryWiseVacancy,omitempty" yaml:"category_wise_vacancy,omitempty"`
	PostWiseVacancy     []VacancyByPost     `json:"postWiseVacancy,omitempty" yaml:"post_wise_vacancy,omitempty"`
	ImportantDates      []ImportantDate     `json:"importantDates,omitempty" yaml:"important_dates,omitempty"`

	NotificationPDF   string `json:"notificationPdf,omitempty" yaml:"notification_pdf,omitempty"`
	PrimaryActionLink string `json:"primaryActionLink,omitempty" yaml:"primary_action_link,omitempty"`

	AvailabilityNote       string                  `json:"availabilityNote,omitempty" yaml:"availability_note,omitempty"`
	PhysicalStandardTest   *PhysicalStandardTest   `json:"physicalStandardTest,omitempty" yaml:"physical_standard_test,omitempty"`
	PhysicalEfficiencyTest []PhysicalEfficiencyRow `json:"physicalEfficiencyTest,omitempty" yaml:"physical_efficiency_test,omitempty"`

	MetaTitle       string `json:"metaTitle,omitempty" yaml:"meta_title,omitempty"`
	MetaDescription string `json:"metaDescription,omitempty" yaml:"meta_description,omitempty"`

	Status PostStatus `json:"status" yaml:"status"`

	AutomationDetails AutomationDetails `json:"automationDetails" yaml:"automation_details"`
}
