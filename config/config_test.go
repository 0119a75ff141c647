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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultConfig(t *testing.T) {
	config := GetDefaultConfig()
	assert.Equal(t, "\t", config.Data.RatingsSep)
	assert.Equal(t, "|", config.Data.ItemsSep)
	assert.Equal(t, "ISO-8859-1", config.Data.ItemsEncoding)
	assert.Equal(t, 3.0, config.Similarity.QualityThreshold)
	assert.Equal(t, 0.97, config.Similarity.ScoreThreshold)
	assert.Equal(t, 50.0, config.Similarity.SupportThreshold)
	assert.Equal(t, 10, config.Similarity.TopK)
	assert.NoError(t, config.Validate())
}

func TestLoadConfig(t *testing.T) {
	text := `
[data]
ratings_path = "testdata/ratings.tsv"
items_path = "testdata/items.psv"

[similarity]
quality_threshold = 2.5
score_threshold = 0.9
support_threshold = 20.0
top_k = 5
jobs = 2
`
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "testdata/ratings.tsv", config.Data.RatingsPath)
	assert.Equal(t, "testdata/items.psv", config.Data.ItemsPath)
	// unset options keep their defaults
	assert.Equal(t, "\t", config.Data.RatingsSep)
	assert.Equal(t, "|", config.Data.ItemsSep)
	assert.Equal(t, 2.5, config.Similarity.QualityThreshold)
	assert.Equal(t, 0.9, config.Similarity.ScoreThreshold)
	assert.Equal(t, 20.0, config.Similarity.SupportThreshold)
	assert.Equal(t, 5, config.Similarity.TopK)
	assert.Equal(t, 2, config.Similarity.Jobs)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	config := GetDefaultConfig()
	config.Similarity.TopK = 0
	assert.Error(t, config.Validate())

	config = GetDefaultConfig()
	config.Similarity.ScoreThreshold = -1
	assert.Error(t, config.Validate())

	config = GetDefaultConfig()
	config.Data.RatingsPath = ""
	assert.Error(t, config.Validate())
}

func TestLoadConfigInvalid(t *testing.T) {
	text := `
[similarity]
top_k = 0
`
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}
