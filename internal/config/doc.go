// Package config loads csdocs settings with viper.
//
// Sources, highest precedence first:
//   - values set on the viper instance (bound command-line flags)
//   - CSDOCS_* environment variables, with "." in keys replaced by "_"
//   - csdocs.yaml in the working directory, or an explicit --config file
//   - defaults
//
// Keys: db_path, workers, log.level, log.format, resolver.strict_overloads,
// extract.validate_references, search.cache_size.
package config
