package metadata

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

const requestTimeout = 30 * time.Second

// Reads the API description from a local file or, for http(s) locations,
// downloads it.
func Fetch(location string) ([]byte, error) {
	if isRemote(location) {
		Logger().Info("downloading API description", zap.String("url", location))
		return queryGet(location)
	}

	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("could not read API description: %w", err)
	}
	return data, nil
}

func isRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func queryGet(url string) ([]byte, error) {
	client := http.Client{Timeout: requestTimeout}
	request, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Accept", "application/json")

	response, err := client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("could not download API description: %w", err)
	}

	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("could not download API description from '%s': %s", url, response.Status)
	}

	return io.ReadAll(response.Body)
}
