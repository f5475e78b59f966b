package viacep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ViniciusLBarbosa/ffxivstore/internal/model"
)

// Client looks Brazilian postal codes up on ViaCEP. The lookup only
// pre-fills address fields; checkout never blocks on it.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient() *Client {
	base := os.Getenv("VIACEP_BASE_URL")
	if base == "" {
		base = "https://viacep.com.br"
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type viaCepResponse struct {
	Logradouro string `json:"logradouro"`
	Bairro     string `json:"bairro"`
	Localidade string `json:"localidade"`
	UF         string `json:"uf"`
	Erro       bool   `json:"erro"`
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Lookup resolves a CEP into a partial address: street, neighborhood, city
// and state. Number and complement stay empty for the user to fill.
func (c *Client) Lookup(ctx context.Context, cep string) (*model.Address, error) {
	clean := digitsOnly(cep)
	if len(clean) != 8 {
		return nil, errors.New("cep must have 8 digits")
	}

	url := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, clean)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cep lookup error: %s", resp.Status)
	}

	var out viaCepResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.Erro {
		return nil, errors.New("cep not found")
	}

	return &model.Address{
		Street:       out.Logradouro,
		Neighborhood: out.Bairro,
		City:         out.Localidade,
		State:        out.UF,
		ZipCode:      clean,
	}, nil
}
