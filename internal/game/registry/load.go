package registry

import (
	"fmt"

	"github.com/spf13/viper"
)

// LoadFile reads weapon_types and unit_types lists from a YAML, JSON or TOML
// file. An empty path returns the built-in registry.
func LoadFile(path string) (*ObjectTypes, error) {
	if path == "" {
		return Default(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading registry file: %w", err)
	}

	var weapons []WeaponSpec
	if err := v.UnmarshalKey("weapon_types", &weapons); err != nil {
		return nil, fmt.Errorf("unable to decode weapon_types: %w", err)
	}
	var units []UnitSpec
	if err := v.UnmarshalKey("unit_types", &units); err != nil {
		return nil, fmt.Errorf("unable to decode unit_types: %w", err)
	}
	if len(units) == 0 {
		return nil, fmt.Errorf("registry file %s defines no unit types", path)
	}

	ot, err := New(weapons, units)
	if err != nil {
		return nil, fmt.Errorf("registry file %s: %w", path, err)
	}
	return ot, nil
}
