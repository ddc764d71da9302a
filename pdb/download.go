// Go to a pdb website and download coordinates.
// Structures are fetched in old PDB format, since that is what we
// read and write.
package pdb

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/andrew-torda/ssbond/pdb/zwrap"
)

// FetchPrefix marks a structure argument as a PDB code, as in
// pdb:1abc, rather than a file name.
const FetchPrefix = "pdb:"

// site is one place to download from.
type site struct {
	urlBase   string
	urlSuffix string
	gzipped   bool
}

var sites = []site{
	{"https://files.rcsb.org/download/", ".pdb.gz", true},
	{"https://www.ebi.ac.uk/pdbe/entry-files/download/pdb", ".ent", false},
}

// Fetch downloads a four letter PDB code. If siteNum is bigger than
// the number of sites we know, it wraps around rather than failing,
// so callers can cycle through them.
func Fetch(acqCode string, siteNum int) (*Structure, error) {
	if len(acqCode) != 4 {
		return nil, errors.New("acq code should be four char, not " + acqCode)
	}
	st := sites[siteNum%len(sites)]
	url := st.urlBase + strings.ToLower(acqCode) + st.urlSuffix
	return fetchURL(http.DefaultClient, url, st.gzipped, strings.ToLower(acqCode))
}

// fetchURL does the work of Fetch.
func fetchURL(client *http.Client, url string, gzipped bool, name string) (*Structure, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wanted %s using %s, got %s", name, url, resp.Status)
	}
	if !gzipped {
		return Read(resp.Body, name)
	}
	zr, err := zwrap.Wrap(resp.Body)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return Read(zr, name)
}
