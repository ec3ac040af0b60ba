package diagfmt

import (
	"encoding/json"
	"io"
	"path/filepath"

	"anchorsec/internal/diag"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID                   string             `json:"id"`
	Name                 string             `json:"name,omitempty"`
	ShortDescription     *sarifMessage      `json:"shortDescription,omitempty"`
	DefaultConfiguration *sarifRuleDefaults `json:"defaultConfiguration,omitempty"`
}

type sarifRuleDefaults struct {
	Level   string `json:"level"`
	Enabled bool   `json:"enabled"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID           string          `json:"ruleId"`
	RuleIndex        *int            `json:"ruleIndex,omitempty"`
	Level            string          `json:"level"`
	Message          sarifMessage    `json:"message"`
	Locations        []sarifLocation `json:"locations"`
	RelatedLocations []sarifLocation `json:"relatedLocations,omitempty"`
}

type sarifLocation struct {
	ID               *int                  `json:"id,omitempty"`
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
	Message          *sarifMessage         `json:"message,omitempty"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

// SARIF regions are 1-based; columns are UTF-16 units like ours.
type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine"`
	EndColumn   uint32 `json:"endColumn"`
}

// SarifLevel maps a severity onto error|warning|note.
func SarifLevel(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	}
	return "note"
}

func sarifLoc(path string, rng diag.Range, msg string) sarifLocation {
	loc := sarifLocation{PhysicalLocation: sarifPhysicalLocation{
		ArtifactLocation: sarifArtifact{URI: filepath.ToSlash(path)},
		Region: sarifRegion{
			StartLine:   rng.StartLine + 1,
			StartColumn: rng.StartCol + 1,
			EndLine:     rng.EndLine + 1,
			EndColumn:   rng.EndCol + 1,
		},
	}}
	if msg != "" {
		loc.Message = &sarifMessage{Text: msg}
	}
	return loc
}

// Sarif форматирует диагностики в SARIF формат (v2.1.0)
func Sarif(w io.Writer, files []File, meta SarifRunMeta) error {
	driver := sarifDriver{Name: meta.ToolName, Version: meta.ToolVersion, InformationURI: meta.InformationURI}
	ruleIndex := make(map[string]int, len(meta.Rules))
	for i, r := range meta.Rules {
		ruleIndex[r.ID] = i
		driver.Rules = append(driver.Rules, sarifRule{
			ID:                   r.ID,
			Name:                 r.Name,
			ShortDescription:     &sarifMessage{Text: r.Description},
			DefaultConfiguration: &sarifRuleDefaults{Level: r.Level, Enabled: r.Enabled},
		})
	}

	run := sarifRun{Tool: sarifTool{Driver: driver}, Results: make([]sarifResult, 0, Count(files))}
	if len(meta.InvocationArgs) > 0 {
		run.Invocations = []sarifInvocation{{Arguments: meta.InvocationArgs, ExecutionSuccessful: true}}
	}
	for _, f := range files {
		path := displayPath(f.Path, meta.PathMode, meta.BaseDir)
		for _, d := range f.Diagnostics {
			res := sarifResult{
				RuleID:    d.Code,
				Level:     SarifLevel(d.Severity),
				Message:   sarifMessage{Text: d.Message},
				Locations: []sarifLocation{sarifLoc(path, d.Range, "")},
			}
			if i, ok := ruleIndex[d.Code]; ok {
				res.RuleIndex = &i
			}
			for j, rel := range d.Related {
				relPath := path
				if rel.FilePath != "" {
					relPath = displayPath(rel.FilePath, meta.PathMode, meta.BaseDir)
				}
				loc := sarifLoc(relPath, rel.Range, rel.Message)
				id := j
				loc.ID = &id
				res.RelatedLocations = append(res.RelatedLocations, loc)
			}
			run.Results = append(run.Results, res)
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(sarifLog{Version: sarifVersion, Schema: sarifSchema, Runs: []sarifRun{run}})
}
