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
	"fmt"

	"github.com/getamis/sirius/log"
	"github.com/spf13/cobra"

	"github.com/SJieNg123/ot-ddh/adaptive"
	"github.com/SJieNg123/ot-ddh/group"
	"github.com/SJieNg123/ot-ddh/rng"
)

var (
	runM       int
	runRounds  int
	runSeed    uint64
	configFile string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "run an end-to-end adaptive oblivious transfer demo",
	Long: `run builds an m x m grid of synthetic messages, runs the setup phase,
and issues a number of adaptively-chosen queries against it, printing each
recovered message. With --seed, every run of the demo is reproducible.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, rounds, seed := runM, runRounds, runSeed
		if configFile != "" {
			c, err := readConfigFile(configFile)
			if err != nil {
				log.Crit("Failed to read config file", "configFile", configFile, "err", err)
			}
			if c.M != 0 {
				m = c.M
			}
			if c.Rounds != 0 {
				rounds = c.Rounds
			}
			if c.Seed != 0 {
				seed = c.Seed
			}
		}
		return runDemo(m, rounds, seed)
	},
}

func init() {
	runCmd.Flags().IntVar(&runM, "m", 4, "grid side length; the transfer universe has m*m messages")
	runCmd.Flags().IntVar(&runRounds, "rounds", 5, "number of adaptive queries to issue")
	runCmd.Flags().Uint64Var(&runSeed, "seed", 0, "seed for the deterministic RNG; 0 uses the system CSPRNG")
	runCmd.Flags().StringVar(&configFile, "config", "", "optional YAML file overriding --m/--rounds/--seed")
}

func runDemo(m, rounds int, seed uint64) error {
	if m <= 0 {
		return fmt.Errorf("m must be positive, got %d", m)
	}

	var source rng.Rng
	if seed != 0 {
		seeded, err := rng.NewSeededRNG(seed)
		if err != nil {
			return fmt.Errorf("build seeded RNG: %w", err)
		}
		source = seeded
		log.Info("using deterministic RNG", "seed", seed)
	} else {
		source = rng.CryptoRNG{}
	}

	grp, err := group.NewGroup()
	if err != nil {
		return fmt.Errorf("build group: %w", err)
	}

	n := m * m
	messages := make([][]byte, n)
	for t := 0; t < n; t++ {
		messages[t] = []byte(fmt.Sprintf("message-%04d", t))
	}

	sender, err := adaptive.NewAdaptiveSender(grp, source, messages)
	if err != nil {
		return fmt.Errorf("build sender: %w", err)
	}
	receiver := adaptive.NewAdaptiveReceiver(grp, source)

	pub, err := sender.Setup()
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	if err := receiver.IngestSetup(pub); err != nil {
		return fmt.Errorf("ingest setup: %w", err)
	}

	log.Info("setup complete", "m", m, "messages", n)

	for round := 0; round < rounds; round++ {
		i := int(nextIndex(source, uint64(m)))
		j := int(nextIndex(source, uint64(m)))

		payload, err := sender.PrepareQuery()
		if err != nil {
			return fmt.Errorf("round %d: prepare query: %w", round, err)
		}
		msg, err := receiver.Query(i, j, payload)
		if err != nil {
			return fmt.Errorf("round %d: query (%d,%d): %w", round, i, j, err)
		}
		fmt.Printf("round %d: (%d,%d) -> %s\n", round, i, j, msg)

		payload.RowService.Destroy()
		payload.ColService.Destroy()
	}

	sender.Destroy()
	return nil
}

// nextIndex draws a uniform value in [0, bound) from source by rejection
// sampling 8-byte big-endian draws. It exists only to pick demo query
// coordinates; it is not part of the protocol's security-relevant sampling.
func nextIndex(source rng.Rng, bound uint64) uint64 {
	if bound == 0 {
		return 0
	}
	var buf [8]byte
	for {
		if err := source.Fill(buf[:]); err != nil {
			return 0
		}
		v := uint64(0)
		for _, b := range buf {
			v = (v << 8) | uint64(b)
		}
		limit := (^uint64(0) / bound) * bound
		if v < limit {
			return v % bound
		}
	}
}
