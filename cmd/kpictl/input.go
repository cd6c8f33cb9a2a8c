package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"workforce/internal/domain/kpi"
	"workforce/internal/domain/reports"
)

// inputFile is the YAML document read by score, report and diff.
type inputFile struct {
	Title  string `yaml:"title"`
	Client struct {
		Name          string `yaml:"name"`
		Industry      string `yaml:"industry"`
		EmployeeCount int    `yaml:"employee_count"`
	} `yaml:"client"`
	KPIs map[string]map[string]any `yaml:"kpis"`
}

func readInput(path string) (inputFile, map[kpi.Code]kpi.InputSet, error) {
	var doc inputFile
	data, err := os.ReadFile(path)
	if err != nil {
		return doc, nil, err
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	keys := make([]string, 0, len(doc.KPIs))
	for raw := range doc.KPIs {
		keys = append(keys, raw)
	}
	sort.Strings(keys)
	inputs := make(map[kpi.Code]kpi.InputSet, len(doc.KPIs))
	for _, raw := range keys {
		code, ok := kpi.ParseCode(raw)
		if !ok {
			return doc, nil, fmt.Errorf("%s: %w %q", path, kpi.ErrUnknownMetric, raw)
		}
		inputs[code] = kpi.InputSet(doc.KPIs[raw])
	}
	return doc, inputs, nil
}

func engineFor(cmd *cobra.Command) (*kpi.Engine, error) {
	path, _ := cmd.Flags().GetString("policy")
	policy, err := kpi.LoadPolicy(path)
	if err != nil {
		return nil, err
	}
	return kpi.NewEngine(kpi.DefaultCatalog(), policy), nil
}

func composeFile(cmd *cobra.Command, path string) (reports.Report, error) {
	engine, err := engineFor(cmd)
	if err != nil {
		return reports.Report{}, err
	}
	doc, inputs, err := readInput(path)
	if err != nil {
		return reports.Report{}, err
	}
	r := reports.NewComposer(engine).Compose(reports.ComposeInput{
		Title: doc.Title,
		Client: reports.ClientSnapshot{
			Name:          doc.Client.Name,
			Industry:      doc.Client.Industry,
			EmployeeCount: doc.Client.EmployeeCount,
		},
		Inputs: inputs,
	})
	r.GeneratedAt = time.Now().UTC()
	return r, nil
}
