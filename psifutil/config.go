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
	"strings"

	"github.com/lnashier/viper"
	"github.com/spf13/cast"
)

// GetStringSlice returns the []string value of varName, which may come
// from a configuration file, an environment variable, or a command-line
// flag. Flag values arrive as a single bracketed string, so they are
// split here rather than through the type assertion.
func GetStringSlice(varName string, cfg *viper.Viper) []string {
	v := cfg.Get(varName)
	if s, ok := v.(string); ok {
		s = strings.Trim(s, "[]")
		if s == "" {
			return nil
		}
		o := strings.Split(s, ",")
		for i, e := range o {
			o[i] = strings.TrimSpace(e)
		}
		return o
	}
	o := cast.ToStringSlice(v)
	if len(o) == 0 {
		return nil
	}
	return o
}
