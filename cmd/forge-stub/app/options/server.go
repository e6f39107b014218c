package options

import (
	"fmt"

	"github.com/spf13/pflag"
)

// ServerOptions holds server configuration options
type ServerOptions struct {
	Port    int
	Host    string
	GinMode string
}

// NewServerOptions creates new server options with default values
func NewServerOptions() *ServerOptions {
	return &ServerOptions{
		Port:    8888,
		Host:    "0.0.0.0",
		GinMode: "release",
	}
}

// AddFlags adds flags for this options struct to the given FlagSet
func (o *ServerOptions) AddFlags(fs *pflag.FlagSet) {
	fs.IntVar(&o.Port, "port", o.Port, "stub server port")
	fs.StringVar(&o.Host, "host", o.Host, "stub server host")
	fs.StringVar(&o.GinMode, "gin-mode", o.GinMode, "gin mode: debug, release, test")
}

// Validate validates server options
func (o *ServerOptions) Validate() error {
	if o.Port < 0 || o.Port > 65535 {
		return fmt.Errorf("invalid port %d", o.Port)
	}

	switch o.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid gin mode %q", o.GinMode)
	}

	return nil
}
