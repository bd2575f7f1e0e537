package core

// RegionalEndpoint is the public endpoint of one region's workload.
type RegionalEndpoint struct {
	Region string `json:"region" yaml:"region"`
	FQDN   string `json:"fqdn" yaml:"fqdn"`
	URL    string `json:"url" yaml:"url"`
}

// NewRegionalEndpoint builds the endpoint for fqdn in region.
func NewRegionalEndpoint(region, fqdn string) RegionalEndpoint {
	return RegionalEndpoint{
		Region: region,
		FQDN:   fqdn,
		URL:    "https://" + fqdn,
	}
}

// URLs returns the URL of every endpoint, in order.
func URLs(endpoints []RegionalEndpoint) []string {
	urls := make([]string, len(endpoints))
	for i, ep := range endpoints {
		urls[i] = ep.URL
	}
	return urls
}
