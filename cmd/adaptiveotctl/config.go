// Copyright © 2020 AMIS Technologies
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"io/ioutil"

	"gopkg.in/yaml.v2"
)

// RunConfig overrides the run command's flags when --config is given. Any
// zero-valued field in the file is left to the corresponding flag's value.
type RunConfig struct {
	M      int    `yaml:"m"`
	Rounds int    `yaml:"rounds"`
	Seed   uint64 `yaml:"seed"`
}

// readConfigFile loads a RunConfig from a YAML file.
func readConfigFile(path string) (*RunConfig, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := &RunConfig{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, err
	}
	return c, nil
}
