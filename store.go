package formblock

import (
	"io/fs"

	"github.com/goliatone/go-formblock/pkg/cms"
	"github.com/goliatone/go-formblock/pkg/content"
)

// NewCMSClient talks to the CMS REST API at baseURL.
func NewCMSClient(baseURL string, options ...cms.Option) (*cms.Client, error) {
	return cms.New(baseURL, options...)
}

// NewCMSStore serves pages, forms and the main menu from the CMS.
func NewCMSStore(client *cms.Client) content.Store {
	return content.NewCMSStore(client)
}

// LoadContent reads pages/, forms/ and globals/ from fsys.
func LoadContent(fsys fs.FS) (content.Store, error) {
	return content.LoadFS(fsys)
}
