package http

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/fwojciec/docpack"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Ensure CatalogSource implements docpack.DiscoveryStrategy.
var _ docpack.DiscoveryStrategy = (*CatalogSource)(nil)

// DefaultCatalogHost is the documentation host served by the catalog API.
const DefaultCatalogHost = "developer.huawei.com"

// DefaultCatalogEndpoint is the catalog tree API of DefaultCatalogHost.
const DefaultCatalogEndpoint = "https://svc-drcn.developer.huawei.com/community/servlet/consumer/cn/documentPortal/getCatalogTree"

// catalogPathRe matches /consumer/{lang}/doc/{catalogName}/{objectId}.
var catalogPathRe = regexp.MustCompile(`^/consumer/([a-z]{2})/doc/([^/]+)/([^/?#]+)`)

// catalogTreePaths are the gjson paths where the node list has been seen.
var catalogTreePaths = []string{"value.catalogTreeList", "catalogTreeList", "value.children", "data.catalogTreeList", "value", "data"}

// CatalogSource discovers pages of a vendor documentation portal through
// its catalog tree API.
type CatalogSource struct {
	client *http.Client

	Host      string
	Endpoint  string
	Timeout   time.Duration
	UserAgent string
}

// NewCatalogSource creates a CatalogSource with the given HTTP client,
// usually the Client of the page Fetcher. If client is nil, a client
// with DefaultFetchTimeout is used.
func NewCatalogSource(client *http.Client) *CatalogSource {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	return &CatalogSource{
		client:    client,
		Host:      DefaultCatalogHost,
		Endpoint:  DefaultCatalogEndpoint,
		Timeout:   docpack.DefaultTimeouts().Catalog,
		UserAgent: DefaultUserAgent,
	}
}

// Name returns the source name.
func (s *CatalogSource) Name() string { return docpack.SourceCatalog }

// Discover asks the catalog API for the tree of the document pageURL
// belongs to. Pages on other hosts are rejected with ENOTFOUND.
func (s *CatalogSource) Discover(ctx context.Context, pageURL string) (*docpack.DocSite, error) {
	u, err := url.Parse(pageURL)
	if err != nil || !strings.EqualFold(u.Hostname(), s.Host) {
		return nil, docpack.Errorf(docpack.ENOTFOUND, "%s is not a catalog page", pageURL)
	}
	m := catalogPathRe.FindStringSubmatch(u.Path)
	if m == nil {
		return nil, docpack.Errorf(docpack.ENOTFOUND, "%s is not a catalog document", pageURL)
	}
	lang, catalogName, objectID := m[1], m[2], m[3]

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	body, err := s.post(ctx, catalogName, objectID, lang)
	if err != nil {
		return nil, err
	}

	pageBase := u.Scheme + "://" + u.Host + "/consumer/" + lang + "/doc/" + catalogName + "/"
	pages := docpack.DedupePages(ParseCatalogTree(body, pageBase))
	if len(pages) == 0 {
		return nil, docpack.Errorf(docpack.ENOTFOUND, "catalog %s has no documents", catalogName)
	}

	return &docpack.DocSite{
		BaseURL: u.Scheme + "://" + u.Host,
		Title:   catalogName,
		Pages:   pages,
		Source:  docpack.SourceCatalog,
	}, nil
}

func (s *CatalogSource) post(ctx context.Context, catalogName, objectID, lang string) (string, error) {
	payload, err := catalogRequest(catalogName, objectID, lang)
	if err != nil {
		return "", docpack.Errorf(docpack.EINTERNAL, "encoding catalog request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, strings.NewReader(payload))
	if err != nil {
		return "", docpack.Errorf(docpack.EINVALID, "creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", s.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", docpack.Errorf(docpack.EINTERNAL, "HTTP %d for %s", resp.StatusCode, s.Endpoint)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// catalogRequest builds the JSON body of a catalog tree request.
func catalogRequest(catalogName, objectID, lang string) (string, error) {
	body, err := sjson.Set("", "catalogName", catalogName)
	if err != nil {
		return "", err
	}
	if body, err = sjson.Set(body, "objectId", objectID); err != nil {
		return "", err
	}
	return sjson.Set(body, "language", lang)
}

// ParseCatalogTree walks a catalog tree response. Every node with a
// relateDocument becomes a page under pageBase; its section is the name of
// the nearest ancestor and its level is the depth in the tree.
func ParseCatalogTree(body, pageBase string) []docpack.DocPage {
	if !gjson.Valid(body) {
		return nil
	}

	root := gjson.Parse(body)
	var nodes gjson.Result
	if root.IsArray() {
		nodes = root
	} else {
		for _, p := range catalogTreePaths {
			if r := root.Get(p); r.IsArray() {
				nodes = r
				break
			}
		}
	}

	var pages []docpack.DocPage
	var walk func(list gjson.Result, section string, depth int)
	walk = func(list gjson.Result, section string, depth int) {
		list.ForEach(func(_, node gjson.Result) bool {
			name := strings.TrimSpace(node.Get("nodeName").String())
			if doc := strings.TrimSpace(node.Get("relateDocument").String()); doc != "" {
				pages = append(pages, docpack.NewDocPage(pageBase+url.PathEscape(doc), name, depth, section))
			}
			if children := node.Get("children"); children.IsArray() {
				walk(children, name, depth+1)
			}
			return true
		})
	}
	walk(nodes, "", 0)

	return pages
}
