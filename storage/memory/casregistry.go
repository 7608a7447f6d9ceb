package memory

import (
	"flag"

	"xdao.co/prolly/cidutil"
	"xdao.co/prolly/storage"
	"xdao.co/prolly/storage/casregistry"
)

var flagMemDeriver string

func init() {
	casregistry.MustRegister(casregistry.Backend{
		Name:        "memory",
		Description: "In-process CAS (contents are lost on exit)",
		Usage:       casregistry.UsageCLI | casregistry.UsageDaemon,
		RegisterFlags: func(fs *flag.FlagSet) {
			fs.StringVar(&flagMemDeriver, "memory-deriver", cidutil.DefaultDeriverName, "CID deriver, codec+mhtype (for --backend=memory)")
		},
		Open: func() (storage.CAS, func() error, error) {
			d, err := cidutil.ParseDeriver(flagMemDeriver)
			if err != nil {
				return nil, nil, err
			}
			return New(d), nil, nil
		},
	})
}
