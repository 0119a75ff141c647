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

// Package dataset loads delimited rating and catalog files. Field separators
// and character encodings are configurable per source, since catalogs are
// frequently shipped in legacy encodings (MovieLens 100K uses ISO-8859-1).
package dataset

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/juju/errors"
	"github.com/likeness-io/likeness/base/log"
	"github.com/likeness-io/likeness/common/util"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// Rating is one user-item interaction.
type Rating struct {
	UserID    int32
	ItemID    int32
	Rating    int32
	Timestamp int64
}

// Item is one catalog entry.
type Item struct {
	ItemID int32
	Title  string
}

// Catalog maps item ids to display titles. Read-only after load.
type Catalog struct {
	titles map[int32]string
}

// Title resolves the display title of an item.
func (c *Catalog) Title(id int32) (string, bool) {
	title, ok := c.titles[id]
	return title, ok
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.titles)
}

type options struct {
	sep       string
	encoding  string
	hasHeader bool
	verbose   bool
}

type Option func(*options)

// WithSep sets the field separator (default "\t").
func WithSep(sep string) Option {
	return func(o *options) {
		o.sep = sep
	}
}

// WithEncoding sets the character encoding by IANA name, e.g. "ISO-8859-1".
// The default is UTF-8.
func WithEncoding(name string) Option {
	return func(o *options) {
		o.encoding = name
	}
}

// WithHasHeader skips the first line of the file.
func WithHasHeader(hasHeader bool) Option {
	return func(o *options) {
		o.hasHeader = hasHeader
	}
}

// WithVerbose shows a progress bar while loading.
func WithVerbose(verbose bool) Option {
	return func(o *options) {
		o.verbose = verbose
	}
}

func applyOptions(opts []Option) options {
	o := options{sep: "\t", encoding: "UTF-8"}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// open returns a line reader over the file, decoding from the configured
// charset and optionally counting progress by bytes read.
func open(path string, o options, description string) (io.ReadCloser, io.Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	var reader io.Reader = file
	if o.verbose {
		if stat, err := file.Stat(); err == nil {
			pb := progressbar.NewReader(file, progressbar.DefaultBytes(stat.Size(), description))
			reader = &pb
		}
	}
	if o.encoding != "" && !strings.EqualFold(o.encoding, "UTF-8") {
		enc, err := ianaindex.IANA.Encoding(o.encoding)
		if err != nil || enc == nil {
			_ = file.Close()
			return nil, nil, errors.NotValidf("encoding %q", o.encoding)
		}
		reader = transform.NewReader(reader, enc.NewDecoder())
	}
	return file, reader, nil
}

// LoadRatings loads ratings from a delimited text file. Each line carries
//
//	<userId> <sep> <itemId> <sep> <rating> [<sep> <timestamp>]
//
// For example, the `u.data` file from MovieLens 100K is:
//
//	196\t242\t3\t881250949
//	186\t302\t3\t891717742
//	22\t377\t1\t878887116
//
// Empty lines are skipped. Any other malformed line aborts the load.
func LoadRatings(path string, opts ...Option) ([]Rating, error) {
	o := applyOptions(opts)
	file, reader, err := open(path, o, "Load ratings")
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()

	ratings := make([]Rating, 0)
	scanner := bufio.NewScanner(reader)
	hasHeader := o.hasHeader
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if hasHeader {
			hasHeader = false
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		fields := strings.Split(text, o.sep)
		if len(fields) < 3 {
			return nil, errors.Errorf("ratings %s line %d: expected at least 3 fields, got %d", path, line, len(fields))
		}
		var rating Rating
		if rating.UserID, err = util.ParseInt[int32](fields[0]); err != nil {
			return nil, errors.Annotatef(err, "ratings %s line %d: user id", path, line)
		}
		if rating.ItemID, err = util.ParseInt[int32](fields[1]); err != nil {
			return nil, errors.Annotatef(err, "ratings %s line %d: item id", path, line)
		}
		if rating.Rating, err = util.ParseInt[int32](fields[2]); err != nil {
			return nil, errors.Annotatef(err, "ratings %s line %d: rating", path, line)
		}
		if len(fields) > 3 {
			if rating.Timestamp, err = util.ParseInt[int64](fields[3]); err != nil {
				return nil, errors.Annotatef(err, "ratings %s line %d: timestamp", path, line)
			}
		}
		ratings = append(ratings, rating)
	}
	if err = scanner.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("loaded ratings",
		zap.String("path", path),
		zap.Int("n_ratings", len(ratings)))
	return ratings, nil
}

// LoadItems loads the item catalog from a delimited text file. Each line
// carries
//
//	<itemId> <sep> <title> [<sep> <extras>...]
//
// Extra fields are ignored. The last entry wins on duplicate ids.
func LoadItems(path string, opts ...Option) (*Catalog, error) {
	o := applyOptions(opts)
	file, reader, err := open(path, o, "Load items")
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()

	catalog := &Catalog{titles: make(map[int32]string)}
	scanner := bufio.NewScanner(reader)
	hasHeader := o.hasHeader
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if hasHeader {
			hasHeader = false
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		fields := strings.Split(text, o.sep)
		if len(fields) < 2 {
			return nil, errors.Errorf("items %s line %d: expected at least 2 fields, got %d", path, line, len(fields))
		}
		id, err := util.ParseInt[int32](fields[0])
		if err != nil {
			return nil, errors.Annotatef(err, "items %s line %d: item id", path, line)
		}
		catalog.titles[id] = fields[1]
	}
	if err = scanner.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("loaded items",
		zap.String("path", path),
		zap.Int("n_items", catalog.Len()))
	return catalog, nil
}
