// Copyright 2025 The dgb Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package datagen synthesizes large sample order datasets for exercising
// the grid, reporting generation throughput as it goes.
package datagen

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"dgb/adapters/slice"
	"dgb/datatable"
	"dgb/internal/logutil"
)

// milestone is the row interval between progress log lines.
const milestone = 100000

// Config controls dataset generation.
type Config struct {
	// Rows is the number of rows to generate.
	Rows int
	// Seed makes generation reproducible; 0 derives one from the clock.
	Seed int64
}

var (
	firstNames = []string{
		"Ada", "Alan", "Alice", "Anna", "Boris", "Carl", "Clara", "Dana",
		"Edgar", "Elena", "Felix", "Grace", "Hans", "Ines", "Ivan", "Julia",
		"Karl", "Lena", "Linus", "Maria", "Nils", "Olga", "Pavel", "Rosa",
		"Sven", "Tina", "Ulf", "Vera", "Wanda", "Yuri",
	}
	lastNames = []string{
		"Andersson", "Berg", "Carlsson", "Dahl", "Ek", "Forsberg", "Gran",
		"Holm", "Isaksson", "Johansson", "Karlsson", "Lind", "Magnusson",
		"Nilsson", "Olsson", "Persson", "Qvist", "Rask", "Sandberg",
		"Tornberg", "Ulvaeus", "Viklund", "Wallin", "Zetterberg",
	}
	regions = []string{
		"North", "South", "East", "West",
		"Central", "Nordic", "Baltic", "Alpine",
	}
	statuses = []string{"Pending", "Confirmed", "Shipped", "Delivered", "Cancelled"}
	products = []string{
		"Anvil", "Beacon", "Compass", "Dynamo", "Easel", "Flange", "Gasket",
		"Hinge", "Ingot", "Jack", "Kiln", "Lathe", "Mallet", "Nozzle",
		"O-Ring", "Pulley", "Quill", "Ratchet", "Sprocket", "Tongs",
		"Union", "Valve", "Winch", "Yoke",
	}
)

// Columns returns the column definitions matching Generate's output.
// Customer names are high-cardinality free text and filter by substring;
// the rest use checklist or range filters per their type.
func Columns() []datatable.Column {
	return []datatable.Column{
		{Key: "order_id", Title: "Order ID", Binding: "order_id", Kind: datatable.FilterNumericRange, Filterable: true},
		{Key: "customer", Title: "Customer", Binding: "customer", Kind: datatable.FilterTextSearch, Filterable: true},
		{Key: "region", Title: "Region", Binding: "region", Kind: datatable.FilterChecklist, Filterable: true},
		{Key: "status", Title: "Status", Binding: "status", Kind: datatable.FilterChecklist, Filterable: true},
		{Key: "product", Title: "Product", Binding: "product", Kind: datatable.FilterChecklist, Filterable: true},
		{Key: "quantity", Title: "Quantity", Binding: "quantity", Kind: datatable.FilterNumericRange, Filterable: true},
		{Key: "unit_price", Title: "Unit Price", Binding: "unit_price", Kind: datatable.FilterNumericRange, Filterable: true},
		{Key: "order_date", Title: "Order Date", Binding: "order_date", Kind: datatable.FilterDateRange, Filterable: true},
	}
}

// Generate synthesizes cfg.Rows sample orders into a slice-backed data
// source, logging a progress line every 100k rows and a final throughput
// summary. Cancellation via ctx is checked between milestones.
func Generate(ctx context.Context, cfg Config) (*slice.Source, error) {
	if cfg.Rows <= 0 {
		return nil, fmt.Errorf("generating dataset: %w", datatable.ErrEmptyData)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	names := []string{
		"order_id", "customer", "region", "status",
		"product", "quantity", "unit_price", "order_date",
	}
	types := []datatable.DataType{
		datatable.TypeInt, datatable.TypeString, datatable.TypeString,
		datatable.TypeString, datatable.TypeString, datatable.TypeInt,
		datatable.TypeFloat, datatable.TypeDate,
	}

	epoch := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	start := time.Now()
	rows := make([][]datatable.Value, 0, cfg.Rows)

	for i := 0; i < cfg.Rows; i++ {
		if i > 0 && i%milestone == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			elapsed := time.Since(start)
			logutil.Info("generating dataset",
				zap.Int("rows", i),
				zap.Duration("elapsed", elapsed),
				zap.Float64("rowsPerSec", float64(i)/elapsed.Seconds()))
		}

		customer := firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))]
		quantity := int64(1 + rng.Intn(99))
		unitPrice := float64(rng.Intn(99900)+100) / 100.0
		orderDate := epoch.AddDate(0, 0, rng.Intn(730))

		rows = append(rows, []datatable.Value{
			datatable.NewValue(int64(i+1), datatable.TypeInt),
			datatable.NewValue(customer, datatable.TypeString),
			datatable.NewValue(regions[rng.Intn(len(regions))], datatable.TypeString),
			datatable.NewValue(statuses[rng.Intn(len(statuses))], datatable.TypeString),
			datatable.NewValue(products[rng.Intn(len(products))], datatable.TypeString),
			datatable.NewValue(quantity, datatable.TypeInt),
			datatable.NewValue(unitPrice, datatable.TypeFloat),
			datatable.NewValue(orderDate, datatable.TypeDate),
		})
	}

	elapsed := time.Since(start)
	logutil.Info("dataset generated",
		zap.Int("rows", cfg.Rows),
		zap.Int64("seed", seed),
		zap.Duration("elapsed", elapsed),
		zap.Float64("rowsPerSec", float64(cfg.Rows)/elapsed.Seconds()))

	return slice.New(names, types, rows)
}
