/*
Copyright © 2024 the PSIF authors.
This file is part of PSIF.

PSIF is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

PSIF is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with PSIF.  If not, see <http://www.gnu.org/licenses/>.
*/

package psifutil

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
)

// maybeDownload checks if path is an existing local file. If not, and if
// it is an HTTP or HTTPS URL, the file is downloaded (with retries) and
// the path to the downloaded copy is returned. c, if not nil, is a
// channel across which error and logging messages will be sent.
func maybeDownload(path string, c chan string) string {
	// Check if local file exists. If it does, return the given path.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return path
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return downloadHTTP(path, c)
	}
	return path
}

// downloadHTTP downloads a file from the specified URL and returns
// the path to the downloaded file.
func downloadHTTP(path string, c chan string) string {
	dir, err := os.MkdirTemp("", "psif")
	if err != nil {
		panic(fmt.Errorf("psifutil: failed creating temporary download directory: %v", err))
	}
	out := filepath.Join(dir, filepath.Base(path))

	err = backoff.RetryNotify(
		func() error {
			w, err := os.Create(out)
			if err != nil {
				return err
			}
			defer w.Close()
			resp, err := http.Get(path)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("psifutil: downloading %s: %s", path, resp.Status)
			}
			_, err = io.Copy(w, resp.Body)
			return err
		},
		backoff.NewExponentialBackOff(),
		func(err error, d time.Duration) {
			if c != nil {
				c <- fmt.Sprintf("%v: retrying in %v", err, d)
			}
		},
	)
	if err != nil {
		if c != nil {
			c <- err.Error()
		}
		return path
	}
	return out
}
