package pdb

import "net/http"

const (
	Old_fmt   = oldFmt
	Mmcif_fmt = mmcifFmt
)

var OldOrMmcif = oldOrMmcif

func FetchURL(url string, gzipped bool, name string) (*Structure, error) {
	return fetchURL(http.DefaultClient, url, gzipped, name)
}
