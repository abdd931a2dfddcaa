// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/paper-engine/pkg/types"
)

// requirementsBlock is included in every section prompt, between the paper
// context and the section instruction. Per prd001-generation R2.5.
const requirementsBlock = `Requirements:
1. Use academic writing style
2. Include proper citations
3. Maintain consistent formatting
4. Ensure factual accuracy
5. Cross-reference with existing literature`

// promptInput carries the request fields and collected citations available
// to section templates.
type promptInput struct {
	Topic       string
	Methodology string
	KeyResults  string
	Citations   string
}

// sectionInstructions holds the writing instruction for each section.
// Per prd001-generation R2.5.
var sectionInstructions = map[types.SectionName]*template.Template{
	types.SectionAbstract: template.Must(template.New("abstract").Parse(
		`Write a detailed and structured abstract for a research paper about {{.Topic}}. Summarize the background, objectives, methods, key results, and conclusions in a concise academic style, including the significance of the findings.`)),
	types.SectionIntroduction: template.Must(template.New("introduction").Parse(
		`Write a comprehensive introduction for a research paper on {{.Topic}}. Include the study's significance, relevant background, existing research gaps, and how this study addresses them. Use an engaging and academic tone.`)),
	types.SectionMethodology: template.Must(template.New("methodology").Parse(
		`Provide an in-depth methodology section for a research paper about {{.Topic}}. Include participant demographics, data collection instruments, procedures, and data analysis methods. Mention ethical considerations if applicable.`)),
	types.SectionResults: template.Must(template.New("results").Parse(
		`Elaborate on the research findings for {{.Topic}}. Include detailed statistical results, tables if applicable, subgroup analyses, and comparisons to existing research. Ensure clear explanations of statistical terms.`)),
	types.SectionDiscussion: template.Must(template.New("discussion").Parse(
		`Write a critical discussion of the results obtained in the study about {{.Topic}}. Analyze implications, strengths, limitations, compare with related literature, and suggest future research directions.`)),
	types.SectionConclusion: template.Must(template.New("conclusion").Parse(
		`Summarize the key findings and their significance for the study on {{.Topic}}. Discuss potential applications of the research, limitations, and recommendations for future studies.`)),
}

// sectionBridges holds the narrative bridge rendered ahead of each section
// instruction. The bridge restates the request fields and offers the
// citations collected from earlier sections. The Abstract opens the paper
// and has no bridge. Per prd001-generation R2.5.
var sectionBridges = map[types.SectionName]*template.Template{
	types.SectionIntroduction: template.Must(template.New("introduction-bridge").Parse(
		`Previously in the Abstract, we established the research focus on {{.Topic}} using {{.Methodology}} which yielded {{.KeyResults}}.{{if .Citations}} Include relevant citations: {{.Citations}}.{{end}}`)),
	types.SectionMethodology: template.Must(template.New("methodology-bridge").Parse(
		`Based on the research objectives outlined in the Introduction regarding {{.Topic}}, detail the following methodological approach: {{.Methodology}}.{{if .Citations}} Reference similar methodologies: {{.Citations}}.{{end}}`)),
	types.SectionResults: template.Must(template.New("results-bridge").Parse(
		`Following the {{.Methodology}} described in the Methodology section, present these findings: {{.KeyResults}}.{{if .Citations}} Compare with similar studies: {{.Citations}}.{{end}}`)),
	types.SectionDiscussion: template.Must(template.New("discussion-bridge").Parse(
		`Considering the results showing {{.KeyResults}} obtained through {{.Methodology}}, interpret these findings in the context of {{.Topic}}.{{if .Citations}} Include comparative analysis: {{.Citations}}.{{end}}`)),
	types.SectionConclusion: template.Must(template.New("conclusion-bridge").Parse(
		`Given the findings {{.KeyResults}} and their discussion in relation to {{.Topic}}, provide concluding thoughts.{{if .Citations}} Reference key literature: {{.Citations}}.{{end}}`)),
}

// BuildPrompt assembles the full prompt for one section: the role line, the
// complete text of every earlier section in generation order, the narrative
// bridge, the requirements block, and the section instruction. The current
// section never appears in its own prompt context (R2.3, R2.4).
func BuildPrompt(req types.PaperRequest, section types.SectionName, prior []types.SectionResult) (string, error) {
	instr, ok := sectionInstructions[section]
	if !ok {
		return "", fmt.Errorf("no instruction template for section %q", section)
	}

	in := promptInput{
		Topic:       req.Topic,
		Methodology: req.Methodology,
		KeyResults:  req.KeyResults,
		Citations:   strings.Join(DedupeCitations(prior), ", "),
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are drafting the %s section of an academic research paper.\n\n", section)

	if len(prior) > 0 {
		b.WriteString("The paper so far:\n\n")
		for _, s := range prior {
			fmt.Fprintf(&b, "## %s\n\n%s\n\n", s.Name, strings.TrimSpace(s.Text))
		}
	}

	if bridge, ok := sectionBridges[section]; ok {
		if err := bridge.Execute(&b, in); err != nil {
			return "", fmt.Errorf("rendering %s context: %w", section, err)
		}
		b.WriteString("\n\n")
	}

	b.WriteString(requirementsBlock)
	b.WriteString("\n\n")

	if err := instr.Execute(&b, in); err != nil {
		return "", fmt.Errorf("rendering %s instruction: %w", section, err)
	}

	return b.String(), nil
}
