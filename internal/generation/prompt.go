// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generation

import (
	"bytes"
	"encoding/json"
	"strings"
	"text/template"

	"github.com/dailyexamresult/notice-engine/pkg/types"
)

// postPromptTmpl is the prompt sent to the model for each verified signal.
// It pins the model to the verified text, forbids invented values, and
// demands the fixed JSON schema the pipeline parses.
var postPromptTmpl = template.Must(template.New("post").Parse(`You are an AI assistant for a government job portal.
Your task is to generate a JSON object for a job post based STRICTLY on the provided text.

RULES:
1. NO HALLUCINATIONS: if a specific detail (like fee or age limit) is not in the text, use null instead of inventing a value.
2. Official source is truth: prioritize the "Extracted Official Text".
3. The output MUST be a single valid JSON object matching the structure below.
4. Rewrite descriptions in original, professional language; do not copy sentences verbatim.
5. SEO LIMITS (mandatory): metaTitle length <= 65 characters, metaDescription length <= 150 characters.
6. Extract availability notes (e.g. "Admit card expected in April") into availabilityNote, physical standards (height, chest, weight) into physicalStandardTest, and physical efficiency requirements (running etc.) into physicalEfficiencyTest, when present.

REQUIRED JSON STRUCTURE:
{
  "title": "Normalized Title",
  "slug": "url-friendly-slug-with-year",
  "shortDescription": "2-3 line summary.",
  "fullDescription": "Detailed info in HTML (p, ul, li tags only).",
  "category": null,
  "organization": "Organization Name",
  "postDate": "YYYY-MM-DD",
  "lastDate": "YYYY-MM-DD",
  "qualification": "Brief eligibility",
  "ageLimit": "Age range details",
  "fees": "Application fee details",
  "totalPosts": 0,
  "educationalQualification": "Detailed educational qualification",
  "categoryWiseVacancy": [ { "category": "Gen/OBC/SC/ST", "totalPosts": 0 } ],
  "postWiseVacancy": [ { "postName": "Post Name", "totalPosts": 0 } ],
  "importantDates": [ { "label": "Application Begin", "date": "YYYY-MM-DD" } ],
  "notificationPdf": "URL from input",
  "primaryActionLink": "URL from input",
  "availabilityNote": "String (e.g. Card out on 15th)",
  "physicalStandardTest": {
    "male": [ { "category": "General", "height": "170 cm", "chest": "80-85 cm" } ],
    "female": [ { "category": "General", "height": "157 cm", "minWeight": "45 kg" } ]
  },
  "physicalEfficiencyTest": [ { "category": "Running", "distance": "5km", "time": "24 mins" } ],
  "metaTitle": "SEO title (<= 65 chars)",
  "metaDescription": "SEO description (<= 150 chars)"
}

INPUT DATA:
Source Signal: {{.SignalJSON}}
Verified Facts: {{.FactsJSON}}
Extracted Official Text (Snippet): {{.Snippet}}
Official PDF URL: {{.PDFURL}}
Official Website: {{.OfficialURL}}
`))

// titlePromptTmpl is the prompt for the title-only drafting flow. Retries
// carry the prior output and its validation errors so the model can
// correct itself instead of repeating the mistake.
var titlePromptTmpl = template.Must(template.New("title").Parse(`You are an AI assistant for a government job portal.
Generate a JSON object for a job post draft from the title alone.

RULES:
1. Extract what the title states (organization, year, notice kind); use null for everything the title does not state. Do NOT invent values.
2. The output MUST be a single valid JSON object with the fields: title, slug, shortDescription, fullDescription, organization, postDate, lastDate, qualification, ageLimit, fees, totalPosts, educationalQualification, importantDates, primaryActionLink, metaTitle, metaDescription.
3. SEO LIMITS (mandatory): metaTitle length <= 65 characters, metaDescription length <= 150 characters.
4. The tone must be neutral and professional. Avoid the phrases: "official website", "government portal", "apply here officially".

TITLE:
{{.Title}}
{{- if .PriorOutput}}

YOUR PREVIOUS ATTEMPT WAS REJECTED. Correct it.
Previous output:
{{.PriorOutput}}

Validation errors:
{{- range .PriorErrors}}
- {{.}}
{{- end}}
{{- end}}
`))

// postPromptData carries the fields rendered into postPromptTmpl.
type postPromptData struct {
	SignalJSON  string
	FactsJSON   string
	Snippet     string
	PDFURL      string
	OfficialURL string
}

// renderPostPrompt builds the generation prompt for one verified signal.
// The official text snippet is bounded to limit bytes.
func renderPostPrompt(vr types.VerificationResult, sig types.Signal, limit int) (string, error) {
	sigJSON, err := json.Marshal(sig)
	if err != nil {
		return "", err
	}

	factsJSON := []byte("null")
	if vr.Facts != nil {
		if factsJSON, err = json.Marshal(vr.Facts); err != nil {
			return "", err
		}
	}

	text := vr.ExtractedText
	if limit > 0 && len(text) > limit {
		text = text[:limit]
	}
	if text == "" {
		text = "Not available"
	}

	var buf bytes.Buffer
	err = postPromptTmpl.Execute(&buf, postPromptData{
		SignalJSON:  string(sigJSON),
		FactsJSON:   string(factsJSON),
		Snippet:     text,
		PDFURL:      vr.OfficialPDFURL,
		OfficialURL: vr.OfficialURL,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// titlePromptData carries the fields rendered into titlePromptTmpl.
type titlePromptData struct {
	Title       string
	PriorOutput string
	PriorErrors []string
}

// renderTitlePrompt builds the title-only prompt, folding in the prior
// attempt when retrying.
func renderTitlePrompt(title, priorOutput string, priorErrors []string) (string, error) {
	var buf bytes.Buffer
	err := titlePromptTmpl.Execute(&buf, titlePromptData{
		Title:       title,
		PriorOutput: priorOutput,
		PriorErrors: priorErrors,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// stripFences removes Markdown code-fence wrapping from model output.
// Both fenced and unfenced responses must parse.
func stripFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}
