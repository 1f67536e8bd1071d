package rates

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dkempf/fintrack/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<gesmes:Envelope xmlns:gesmes="http://www.gesmes.org/xml/2002-08-01" xmlns="http://www.ecb.int/vocabulary/2002-08-01/eurofxref">
	<gesmes:subject>Reference rates</gesmes:subject>
	<Cube>
		<Cube time="2025-08-29">
			<Cube currency="USD" rate="1.0842"/>
			<Cube currency="JPY" rate="163.21"/>
			<Cube currency="GBP" rate="0.8531"/>
		</Cube>
	</Cube>
</gesmes:Envelope>`

func testClient(url string) *Client {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewClient(&config.Config{RatesURL: url}, logger)
}

func TestParseXMLResponse(t *testing.T) {
	c := testClient("")

	result, err := c.parseXMLResponse([]byte(feedXML))
	require.NoError(t, err)
	assert.Len(t, result, 3)
	assert.Equal(t, 1.0842, result["USD"])
	assert.Equal(t, 0.8531, result["GBP"])
}

func TestParseXMLResponseNoRates(t *testing.T) {
	c := testClient("")

	_, err := c.parseXMLResponse([]byte(`<Envelope><Cube/></Envelope>`))
	assert.Error(t, err)

	_, err = c.parseXMLResponse([]byte(`not xml at all <<<`))
	assert.Error(t, err)
}

func TestGetRates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feedXML))
	}))
	defer server.Close()

	result, err := testClient(server.URL).GetRates()
	require.NoError(t, err)
	assert.Equal(t, 163.21, result["JPY"])
}

func TestGetRatesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := testClient(server.URL).GetRates()
	assert.Error(t, err)
}
