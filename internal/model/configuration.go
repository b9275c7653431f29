package model

// Environment selects which remote endpoint a configuration talks to.
type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentSandbox    Environment = "sandbox"
)

// Service descriptor URLs of the remote notification authority, one per environment.
const (
	ProductionEndpointURL = "https://gd-dehuws.redsara.es/ws/v2/lema?wsdl"
	SandboxEndpointURL    = "https://se-gd-dehuws.redsara.es/ws/v2/lema?wsdl"
)

// EndpointURL derives the descriptor URL for env. Anything other than production uses the sandbox.
func EndpointURL(env Environment) string {
	if env == EnvironmentProduction {
		return ProductionEndpointURL
	}
	return SandboxEndpointURL
}

// Configuration holds the connection parameters for the remote notification service.
// Records are maintained by administrators; the synchronization code only reads them.
type Configuration struct {
	ID                  int64       `json:"id"`
	Name                string      `json:"name"`
	Environment         Environment `json:"environment"`
	APIKey              string      `json:"-"`
	Certificate         []byte      `json:"-"`
	CertificateFilename string      `json:"certificate_filename,omitempty"`
	CompanyName         string      `json:"company_name"`
	CompanyTaxID        string      `json:"company_tax_id"`
	Active              bool        `json:"active"`
}

// EndpointURL returns the descriptor URL derived from the configuration environment.
func (c *Configuration) EndpointURL() string {
	return EndpointURL(c.Environment)
}
