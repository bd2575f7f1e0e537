package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/opmodel/geodeploy/internal/core"
)

// Report is what a completed deployment run hands back to the operator.
type Report struct {
	Application string                  `json:"application" yaml:"application"`
	Environment string                  `json:"environment" yaml:"environment"`
	RegionURLs  []string                `json:"regionUrls" yaml:"regionUrls"`
	Endpoints   []core.RegionalEndpoint `json:"endpoints" yaml:"endpoints"`
	RouterFQDN  string                  `json:"routerFqdn" yaml:"routerFqdn"`
	RouterURL   string                  `json:"routerUrl" yaml:"routerUrl"`
}

// WriteReport writes r to w in the requested format.
func WriteReport(w io.Writer, r *Report, format Format) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(r); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		return nil
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		err := encoder.Encode(r)
		if closeErr := encoder.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return nil
	case FormatTable:
		_, err := io.WriteString(w, renderReportTable(r))
		return err
	}
	return fmt.Errorf("unsupported report format %q (valid: %s)", format, strings.Join(ValidFormats(), ", "))
}

// renderReportTable renders the endpoints table followed by the router line.
func renderReportTable(r *Report) string {
	t := NewTable("REGION", "FQDN", "URL")
	for _, ep := range r.Endpoints {
		t.Row(ep.Region, ep.FQDN, ep.URL)
	}

	var sb strings.Builder
	sb.WriteString(t.String())
	sb.WriteString("\n")
	sb.WriteString(FormatCheckmark(fmt.Sprintf("%s %s routed via %s",
		r.Application, r.Environment, StyleNoun.Render(r.RouterURL))))
	sb.WriteString("\n")
	return sb.String()
}
