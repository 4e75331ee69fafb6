// Package config handles loading and validating relaycore configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// The relay table, driver polarity, debounce window, and persistence toggle
// are all ordinary configuration here, evaluated once at startup. The index
// of an entry in relays.lines is the relay's identity everywhere else in the
// system, so reordering the table renumbers the relays.
//
// Security Considerations:
//   - Sensitive values (passwords, tokens) should be set via environment variables
//   - The config file should have restricted permissions (0600)
//
// Performance Characteristics:
//   - Configuration is loaded once at startup
//   - No runtime overhead after initial load
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(len(cfg.Relays.Lines))
package config
