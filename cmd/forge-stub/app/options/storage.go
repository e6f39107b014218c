package options

import (
	"github.com/spf13/pflag"
)

// StorageOptions holds storage configuration options
type StorageOptions struct {
	// Unavailable starts the store down so project routes answer 503.
	Unavailable     bool
	OrgRepositories []string
}

// NewStorageOptions creates new storage options with default values
func NewStorageOptions() *StorageOptions {
	return &StorageOptions{}
}

// AddFlags adds flags for this options struct to the given FlagSet
func (o *StorageOptions) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&o.Unavailable, "storage-unavailable", o.Unavailable, "simulate an unavailable database")
	fs.StringSliceVar(&o.OrgRepositories, "org-repositories", o.OrgRepositories,
		"repository names listed for every GitHub organization")
}

// Validate validates storage options
func (o *StorageOptions) Validate() error {
	return nil
}
