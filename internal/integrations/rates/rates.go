package rates

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/dkempf/fintrack/internal/config"
	"github.com/sirupsen/logrus"
)

// Client fetches daily reference exchange rates from the ECB feed
type Client struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new rates client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url: cfg.RatesURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// fetch downloads the raw XML feed
func (c *Client) fetch() ([]byte, error) {
	resp, err := c.client.Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	c.log.Debugf("Rates XML response: %s", string(body))

	return body, nil
}

// parseXMLResponse extracts currency rates from the feed XML
func (c *Client) parseXMLResponse(rawBody []byte) (map[string]float64, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %v", err)
	}

	cubes := doc.FindElements("//Cube[@currency]")
	if len(cubes) == 0 {
		return nil, fmt.Errorf("no rate data found in XML")
	}

	result := make(map[string]float64, len(cubes))
	for _, cube := range cubes {
		currency := cube.SelectAttrValue("currency", "")
		rateAttr := cube.SelectAttrValue("rate", "")
		rate, err := strconv.ParseFloat(rateAttr, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rate for %s: %v", currency, err)
		}
		result[currency] = rate
	}

	return result, nil
}

// GetRates retrieves the current EUR reference rates keyed by currency code
func (c *Client) GetRates() (map[string]float64, error) {
	body, err := c.fetch()
	if err != nil {
		return nil, err
	}

	result, err := c.parseXMLResponse(body)
	if err != nil {
		return nil, err
	}

	c.log.Infof("Retrieved %d reference rates", len(result))
	return result, nil
}
