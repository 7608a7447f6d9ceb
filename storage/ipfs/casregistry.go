package ipfs

import (
	"flag"

	"xdao.co/prolly/cidutil"
	"xdao.co/prolly/storage"
	"xdao.co/prolly/storage/casregistry"
)

var (
	flagIPFSBin     string
	flagIPFSDeriver string
)

func init() {
	casregistry.MustRegister(casregistry.Backend{
		Name:        "ipfs",
		Description: "Kubo-CLI-backed CAS (requires a local ipfs binary)",
		Usage:       casregistry.UsageCLI | casregistry.UsageDaemon,
		RegisterFlags: func(fs *flag.FlagSet) {
			fs.StringVar(&flagIPFSBin, "ipfs-bin", "", "Path to the ipfs binary (for --backend=ipfs)")
			fs.StringVar(&flagIPFSDeriver, "ipfs-deriver", cidutil.DefaultDeriverName, "CID deriver, codec+mhtype (for --backend=ipfs)")
		},
		Open: func() (storage.CAS, func() error, error) {
			d, err := cidutil.ParseDeriver(flagIPFSDeriver)
			if err != nil {
				return nil, nil, err
			}
			cas, err := New(d, Options{Bin: flagIPFSBin})
			return cas, nil, err
		},
	})
}
