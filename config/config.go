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

package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"
	"github.com/likeness-io/likeness/similarity"
	"github.com/spf13/viper"
)

// Config is the configuration for the similarity engine.
type Config struct {
	Data       DataConfig       `mapstructure:"data"`
	Similarity SimilarityConfig `mapstructure:"similarity"`
}

// DataConfig locates the source files. Separators and encodings are
// configured per source since rating and catalog files frequently disagree.
type DataConfig struct {
	RatingsPath     string `mapstructure:"ratings_path" validate:"required"`
	RatingsSep      string `mapstructure:"ratings_sep" validate:"required"`
	RatingsEncoding string `mapstructure:"ratings_encoding"`
	ItemsPath       string `mapstructure:"items_path" validate:"required"`
	ItemsSep        string `mapstructure:"items_sep" validate:"required"`
	ItemsEncoding   string `mapstructure:"items_encoding"`
	HasHeader       bool   `mapstructure:"has_header"`
}

// SimilarityConfig carries the pipeline thresholds. The defaults are tuned
// for MovieLens 100K and are expected to be overridden for other datasets.
type SimilarityConfig struct {
	QualityThreshold float64 `mapstructure:"quality_threshold" validate:"gte=0"`
	ScoreThreshold   float64 `mapstructure:"score_threshold" validate:"gte=0"`
	SupportThreshold float64 `mapstructure:"support_threshold" validate:"gte=0"`
	TopK             int     `mapstructure:"top_k" validate:"gte=1"`
	Jobs             int     `mapstructure:"jobs" validate:"gte=0"`
}

// GetDefaultConfig returns the default configuration.
func GetDefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			RatingsPath:     "ml-100k/u.data",
			RatingsSep:      "\t",
			RatingsEncoding: "UTF-8",
			ItemsPath:       "ml-100k/u.item",
			ItemsSep:        "|",
			ItemsEncoding:   "ISO-8859-1",
		},
		Similarity: SimilarityConfig{
			QualityThreshold: similarity.DefaultQualityThreshold,
			ScoreThreshold:   similarity.DefaultScoreThreshold,
			SupportThreshold: similarity.DefaultSupportThreshold,
			TopK:             similarity.DefaultTopK,
		},
	}
}

func setDefault() {
	defaultConfig := GetDefaultConfig()
	viper.SetDefault("data.ratings_path", defaultConfig.Data.RatingsPath)
	viper.SetDefault("data.ratings_sep", defaultConfig.Data.RatingsSep)
	viper.SetDefault("data.ratings_encoding", defaultConfig.Data.RatingsEncoding)
	viper.SetDefault("data.items_path", defaultConfig.Data.ItemsPath)
	viper.SetDefault("data.items_sep", defaultConfig.Data.ItemsSep)
	viper.SetDefault("data.items_encoding", defaultConfig.Data.ItemsEncoding)
	viper.SetDefault("data.has_header", defaultConfig.Data.HasHeader)
	viper.SetDefault("similarity.quality_threshold", defaultConfig.Similarity.QualityThreshold)
	viper.SetDefault("similarity.score_threshold", defaultConfig.Similarity.ScoreThreshold)
	viper.SetDefault("similarity.support_threshold", defaultConfig.Similarity.SupportThreshold)
	viper.SetDefault("similarity.top_k", defaultConfig.Similarity.TopK)
	viper.SetDefault("similarity.jobs", defaultConfig.Similarity.Jobs)
}

// LoadConfig loads and validates the configuration from a TOML file. Unset
// options keep their defaults. Environment variables prefixed with LIKENESS_
// override the file, e.g. LIKENESS_SIMILARITY_TOP_K.
func LoadConfig(path string) (*Config, error) {
	setDefault()
	viper.SetConfigType("toml")
	viper.SetConfigFile(path)
	viper.SetEnvPrefix("likeness")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		return nil, errors.Trace(err)
	}
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, errors.Trace(err)
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &config, nil
}

// Validate checks threshold ranges and required paths.
func (config *Config) Validate() error {
	return errors.Trace(validator.New().Struct(config))
}
