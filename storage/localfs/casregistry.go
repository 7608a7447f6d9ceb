package localfs

import (
	"flag"
	"fmt"

	"xdao.co/prolly/cidutil"
	"xdao.co/prolly/storage"
	"xdao.co/prolly/storage/casregistry"
)

var (
	flagLocalDir     string
	flagLocalDeriver string
)

func init() {
	casregistry.MustRegister(casregistry.Backend{
		Name:        "localfs",
		Description: "Local filesystem CAS (directory)",
		Usage:       casregistry.UsageCLI | casregistry.UsageDaemon,
		RegisterFlags: func(fs *flag.FlagSet) {
			fs.StringVar(&flagLocalDir, "localfs-dir", "", "LocalFS CAS directory (for --backend=localfs)")
			fs.StringVar(&flagLocalDeriver, "localfs-deriver", cidutil.DefaultDeriverName, "CID deriver, codec+mhtype (for --backend=localfs)")
		},
		Open: func() (storage.CAS, func() error, error) {
			if flagLocalDir == "" {
				return nil, nil, fmt.Errorf("missing --localfs-dir")
			}
			d, err := cidutil.ParseDeriver(flagLocalDeriver)
			if err != nil {
				return nil, nil, err
			}
			cas, err := New(flagLocalDir, d)
			return cas, nil, err
		},
	})
}
