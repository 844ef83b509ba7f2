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

// Command psif is a command-line interface for the PSIF smoke exposure model.
package main

import (
	"time"

	"github.com/Babakjfard/PSIF/psifutil"
	"github.com/sirupsen/logrus"
)

var logger *logrus.Logger

func init() {
	logger = logrus.StandardLogger()
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableSorting:  true,
	})
}

func main() {
	if err := psifutil.Root.Execute(); err != nil {
		logger.WithError(err).Fatal("run failed")
	}
}
