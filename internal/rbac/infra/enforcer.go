package infra

import (
	_ "embed"
	"errors"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	stringadapter "github.com/casbin/casbin/v2/persist/string-adapter"
)

//go:embed model.conf
var defaultModel string

//go:embed policy.csv
var defaultPolicy string

var ErrPartialRBACPaths = errors.New("RBAC_MODEL_PATH and RBAC_POLICY_PATH must be set together")

// NewEnforcer loads model and policy from disk. Both paths empty selects the
// embedded defaults.
func NewEnforcer(modelPath, policyPath string) (*casbin.Enforcer, error) {
	switch {
	case modelPath != "" && policyPath != "":
		return casbin.NewEnforcer(modelPath, policyPath)
	case modelPath != "" || policyPath != "":
		return nil, ErrPartialRBACPaths
	}
	return NewDefaultEnforcer()
}

func NewDefaultEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(defaultModel)
	if err != nil {
		return nil, err
	}
	return casbin.NewEnforcer(m, stringadapter.NewAdapter(defaultPolicy))
}
