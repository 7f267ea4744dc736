package providers

import (
	"donwatch/internal/structures"
	"fmt"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

// Validate checks struct tags first, then the cross-field rules tags cannot express.
func (c *CnfValidator) Validate() error {
	v := validate.Struct(c.conf)
	if !v.Validate() {
		return v.Errors
	}

	seen := make(map[string]struct{}, len(c.conf.Chains))
	for i, ch := range c.conf.Chains {
		if ch.Disabled && ch.ID != "" {
			continue
		}
		if ch.ID == "" || ch.Name == "" {
			return fmt.Errorf("chains[%d]: id and name are required", i)
		}
		if _, dup := seen[ch.ID]; dup {
			return fmt.Errorf("chains[%d]: duplicate chain id %q", i, ch.ID)
		}
		seen[ch.ID] = struct{}{}
		switch ch.Kind {
		case "evm", "btc", "ltc", "sol", "tron":
		default:
			return fmt.Errorf("chains[%d]: unknown kind %q", i, ch.Kind)
		}
	}
	return nil
}
