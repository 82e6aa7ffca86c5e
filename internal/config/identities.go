package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// Identities is the seed read at startup: the fixed admin, the platform
// owner, the oracle callback identity with its verification key, and the
// initially authorized doctors.
type Identities struct {
	Admin string `yaml:"admin"`
	Owner string `yaml:"owner"`

	Oracle          string `yaml:"oracle"`
	OraclePublicKey string `yaml:"oraclePublicKey"`

	Doctors []string `yaml:"doctors"`
}

func (i Identities) Validate() error {
	if i.Admin == "" {
		return errors.New("admin identity is missing")
	}
	if i.Owner == "" {
		return errors.New("owner identity is missing")
	}
	if i.Oracle == "" {
		return errors.New("oracle identity is missing")
	}

	return nil
}

func LoadIdentities(path string) (Identities, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Identities{}, errors.New("failed to read the identity file: " + err.Error())
	}

	var identities Identities
	if err := yaml.Unmarshal(data, &identities); err != nil {
		return Identities{}, errors.New("failed to unmarshal the identity file: " + err.Error())
	}

	if err := identities.Validate(); err != nil {
		return Identities{}, err
	}

	return identities, nil
}
