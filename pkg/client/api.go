package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/telarmx/artisan-finder/pkg/common/jsoncompat"
	"github.com/telarmx/artisan-finder/pkg/types"
)

// FetchError is any upstream failure: transport, non-200 status or a body
// that could not be decoded. The catalog treats it as "collection
// unavailable", never as fatal.
type FetchError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream %s returned status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("upstream %s failed: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// StorefrontClient talks to the remote storefront REST API. Read only, rate
// limited so a burst of session refreshes does not hammer the backend.
type StorefrontClient struct {
	baseUrl string
	client  *http.Client
	limiter *rate.Limiter
}

func NewStorefrontClient(baseUrl string) *StorefrontClient {
	return &StorefrontClient{
		baseUrl: baseUrl,
		client:  &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(10), 20),
	}
}

func (c *StorefrontClient) get(ctx context.Context, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &FetchError{Endpoint: path, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseUrl+path, nil)
	if err != nil {
		return &FetchError{Endpoint: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return &FetchError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &FetchError{Endpoint: path, Status: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &FetchError{Endpoint: path, Err: err}
	}
	if err := decodeList(body, out); err != nil {
		return &FetchError{Endpoint: path, Err: err}
	}
	return nil
}

// decodeList accepts both upstream response shapes: the bare JSON value or
// an object wrapping it in a "data" field.
func decodeList(body []byte, out any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '{' {
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if err := jsoncompat.Unmarshal(trimmed, &env); err == nil && len(env.Data) > 0 {
			return jsoncompat.Unmarshal(env.Data, out)
		}
	}
	return jsoncompat.Unmarshal(trimmed, out)
}

func (c *StorefrontClient) FetchProducts(ctx context.Context) ([]types.Product, error) {
	products := make([]types.Product, 0)
	if err := c.get(ctx, "/public/productos", &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *StorefrontClient) FetchProduct(ctx context.Context, id string) (*types.Product, error) {
	product := types.Product{}
	if err := c.get(ctx, "/public/productos/"+id, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *StorefrontClient) FetchCategories(ctx context.Context) ([]types.Category, error) {
	categories := make([]types.Category, 0)
	if err := c.get(ctx, "/categorias", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *StorefrontClient) FetchLocalities(ctx context.Context) ([]types.Locality, error) {
	localities := make([]types.Locality, 0)
	if err := c.get(ctx, "/localidades", &localities); err != nil {
		return nil, err
	}
	return localities, nil
}

func (c *StorefrontClient) FetchSizes(ctx context.Context) ([]types.Size, error) {
	sizes := make([]types.Size, 0)
	if err := c.get(ctx, "/tallas", &sizes); err != nil {
		return nil, err
	}
	return sizes, nil
}

func (c *StorefrontClient) FetchServices(ctx context.Context) ([]types.Service, error) {
	services := make([]types.Service, 0)
	if err := c.get(ctx, "/servicios", &services); err != nil {
		return nil, err
	}
	return services, nil
}

func (c *StorefrontClient) FetchPhotos(ctx context.Context) ([]types.Photo, error) {
	photos := make([]types.Photo, 0)
	if err := c.get(ctx, "/fotos", &photos); err != nil {
		return nil, err
	}
	return photos, nil
}

func (c *StorefrontClient) FetchVideos(ctx context.Context) ([]types.Video, error) {
	videos := make([]types.Video, 0)
	if err := c.get(ctx, "/videos", &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

func (c *StorefrontClient) FetchEvents(ctx context.Context) ([]types.Event, error) {
	events := make([]types.Event, 0)
	if err := c.get(ctx, "/eventos", &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *StorefrontClient) FetchCollaborators(ctx context.Context) ([]types.Collaborator, error) {
	collaborators := make([]types.Collaborator, 0)
	if err := c.get(ctx, "/public/colaboradores", &collaborators); err != nil {
		return nil, err
	}
	return collaborators, nil
}

// FetchCatalog issues the product and category fetches together. The
// category list is display data only, so its failure fails the whole fetch
// the same way, one error state keeps the session model simple.
func (c *StorefrontClient) FetchCatalog(ctx context.Context) ([]types.Product, []types.Category, error) {
	var (
		products   []types.Product
		categories []types.Category
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = c.FetchProducts(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = c.FetchCategories(gCtx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return products, categories, nil
}
