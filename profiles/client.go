package profiles

import (
	"context"
	"fmt"
	"net/http"

	"github.com/calvinmclean/k2so/config"

	"github.com/calvinmclean/babyapi"
)

// Client talks to the profile API of a running panel
type Client struct {
	client *babyapi.Client[*Profile]
}

func NewClient(addr string) *Client {
	return &Client{client: babyapi.NewClient[*Profile](addr, Base)}
}

// Create stores p and returns its ID
func (c *Client) Create(ctx context.Context, p config.Profile) (string, error) {
	resp, err := c.client.Post(ctx, &Profile{Profile: p})
	if err != nil {
		return "", fmt.Errorf("error creating profile: %w", err)
	}
	return resp.Data.GetID(), nil
}

func (c *Client) Get(ctx context.Context, id string) (*Profile, error) {
	resp, err := c.client.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting profile: %w", err)
	}
	return resp.Data, nil
}

func (c *Client) List(ctx context.Context) ([]*Profile, error) {
	resp, err := c.client.GetAll(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("error listing profiles: %w", err)
	}
	return resp.Data.Items, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.client.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("error deleting profile: %w", err)
	}
	return nil
}

// Apply asks the panel to push the profile to the droid
func (c *Client) Apply(ctx context.Context, id string) error {
	url, err := c.client.URL(id)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url+"/apply", http.NoBody)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	resp, err := c.client.MakeGenericRequest(req, nil)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	if resp.Response.StatusCode != http.StatusNoContent && resp.Response.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d, response: %v", resp.Response.StatusCode, resp.Body)
	}
	return nil
}
