// Copyright 2024 likeness Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/likeness-io/likeness/base/log"
	"github.com/likeness-io/likeness/cmd/version"
	"github.com/likeness-io/likeness/common/util"
	"github.com/likeness-io/likeness/config"
	"github.com/likeness-io/likeness/dataset"
	"github.com/likeness-io/likeness/similarity"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCommand = &cobra.Command{
	Use:   "likeness [item-id ...]",
	Short: "Find similar items from user-item ratings.",
	Long: "Likeness computes cosine similarity between item pairs co-rated by the " +
		"same users and answers similar-items queries against the aggregated table. " +
		"Item ids are read from the arguments, or interactively from stdin when no " +
		"argument is given.",
	Run: func(cmd *cobra.Command, args []string) {
		// Show version
		if showVersion, _ := cmd.PersistentFlags().GetBool("version"); showVersion {
			fmt.Println(version.BuildInfo())
			return
		}

		// setup logger
		debug, _ := cmd.PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.PersistentFlags(), debug)

		// load config
		var conf *config.Config
		var err error
		if cmd.PersistentFlags().Changed("config") {
			configPath, _ := cmd.PersistentFlags().GetString("config")
			log.Logger().Info("load config", zap.String("config", configPath))
			conf, err = config.LoadConfig(configPath)
			if err != nil {
				log.Logger().Fatal("failed to load config", zap.Error(err))
			}
		} else {
			conf = config.GetDefaultConfig()
			if err = conf.Validate(); err != nil {
				log.Logger().Fatal("invalid config", zap.Error(err))
			}
		}

		// load sources
		catalog, err := dataset.LoadItems(conf.Data.ItemsPath,
			dataset.WithSep(conf.Data.ItemsSep),
			dataset.WithEncoding(conf.Data.ItemsEncoding),
			dataset.WithHasHeader(conf.Data.HasHeader),
			dataset.WithVerbose(true))
		if err != nil {
			log.Logger().Fatal("failed to load item catalog", zap.Error(err))
		}
		ratings, err := dataset.LoadRatings(conf.Data.RatingsPath,
			dataset.WithSep(conf.Data.RatingsSep),
			dataset.WithEncoding(conf.Data.RatingsEncoding),
			dataset.WithHasHeader(conf.Data.HasHeader),
			dataset.WithVerbose(true))
		if err != nil {
			log.Logger().Fatal("failed to load ratings", zap.Error(err))
		}

		// fit once, query many times
		table, err := similarity.Fit(cmd.Context(), ratings, &similarity.FitConfig{
			QualityThreshold: conf.Similarity.QualityThreshold,
			Jobs:             conf.Similarity.Jobs,
		})
		if err != nil {
			log.Logger().Fatal("failed to fit similarity table", zap.Error(err))
		}
		opts := similarity.SearchOptions{
			ScoreThreshold:   conf.Similarity.ScoreThreshold,
			SupportThreshold: conf.Similarity.SupportThreshold,
			TopK:             conf.Similarity.TopK,
		}

		if len(args) > 0 {
			ok := true
			for _, arg := range args {
				ok = query(catalog, table, opts, arg) && ok
			}
			if !ok {
				os.Exit(1)
			}
			return
		}

		// interactive loop
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("Enter an item id to find similar items (empty line to quit): ")
			if !scanner.Scan() {
				break
			}
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				break
			}
			query(catalog, table, opts, text)
		}
	},
}

// query parses one item id and prints its neighbors. A non-numeric id is an
// input failure reported before the engine runs; an id without qualifying
// neighbors is a valid query with an empty result.
func query(catalog *dataset.Catalog, table *similarity.Table, opts similarity.SearchOptions, text string) bool {
	itemId, err := util.ParseInt[int32](text)
	if err != nil {
		fmt.Printf("Invalid item id %q: please enter a numeric item id.\n", text)
		return false
	}
	neighbors := table.Search(itemId, opts)
	if len(neighbors) == 0 {
		fmt.Printf("No similar items found for %s.\n", itemTitle(catalog, itemId))
		return true
	}
	fmt.Printf("Top %d similar items for %s:\n", len(neighbors), itemTitle(catalog, itemId))
	writer := tablewriter.NewWriter(os.Stdout)
	writer.Header([]string{"Similar item", "Score", "Strength"})
	for _, row := range lo.Map(neighbors, func(n similarity.Neighbor, _ int) []string {
		return []string{
			itemTitle(catalog, n.ItemID),
			strconv.FormatFloat(n.Score, 'f', 2, 64),
			strconv.FormatInt(n.Support, 10),
		}
	}) {
		if err := writer.Append(row); err != nil {
			log.Logger().Error("failed to append row", zap.Error(err))
		}
	}
	if err := writer.Render(); err != nil {
		log.Logger().Error("failed to render table", zap.Error(err))
	}
	return true
}

// itemTitle resolves a display title, falling back to the numeric id for
// items missing from the catalog.
func itemTitle(catalog *dataset.Catalog, id int32) string {
	if title, ok := catalog.Title(id); ok {
		return title
	}
	return strconv.FormatInt(int64(id), 10)
}

func init() {
	log.AddFlags(rootCommand.PersistentFlags())
	rootCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	rootCommand.PersistentFlags().BoolP("version", "v", false, "likeness version")
	rootCommand.PersistentFlags().StringP("config", "c", "", "configuration file path")
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
