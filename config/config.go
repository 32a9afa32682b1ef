package config

import (
	"fmt"
	"time"
)

const DefaultJarFolder = "jars"

// Options is the validated launch configuration the pipeline consumes.
// The CLI layer fills it from flags and calls Validate once; downstream
// stages trust it as-is.
type Options struct {
	JavaLocation     string
	PropertiesFile   string
	JarFolder        string
	Execute          bool
	LogConfiguration string
	FetchTimeout     time.Duration
}

// Validate applies defaults and enforces the one cross-field rule owned
// by this layer: executing the daemon makes no sense without a properties
// file to hand it.
func (o *Options) Validate() error {
	if o.JarFolder == "" {
		o.JarFolder = DefaultJarFolder
	}
	if o.Execute && o.PropertiesFile == "" {
		return fmt.Errorf("--properties is required when --execute is set")
	}
	return nil
}
