// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spec

import "github.com/aclements/mwplot/data"

// Field names of match weight records.
const (
	FieldIteration          = "iteration"
	FieldComparisonName     = "comparison_name"
	FieldVectorValue        = "comparison_vector_value"
	FieldLabel              = "label_for_charts"
	FieldLog2BayesFactor    = "log2_bayes_factor"
	FieldBayesFactor        = "bayes_factor"
	FieldMProbability       = "m_probability"
	FieldUProbability       = "u_probability"
	FieldSortOrder          = "comparison_sort_order"
	FieldSQLCondition       = "sql_condition"
	FieldBayesFactorDesc    = "bayes_factor_description"
	FieldMProbabilityDesc   = "m_probability_description"
	FieldUProbabilityDesc   = "u_probability_description"
	FieldProbabilityOfMatch = "probability_two_random_records_match"
)

// PriorComparison is the comparison name of the record carrying the
// prior match weight.
const PriorComparison = "probability_two_random_records_match"

// MatchWeightChart returns the document for the interactive match
// weight chart of a record linkage model over records. Each record
// describes one comparison level at one training iteration.
func MatchWeightChart(records []data.Record) (*Spec, error) {
	s, err := decode([]byte(matchWeightDoc))
	if err != nil {
		return nil, err
	}
	s.Data.Values = records
	if err := validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

const matchWeightDoc = `{
  "$schema": "https://vega.github.io/schema/vega-lite/v5.json",
  "config": {
    "view": {"continuousWidth": 400, "continuousHeight": 300, "discreteWidth": 400, "discreteHeight": 300}
  },
  "title": {
    "text": "Model parameters (components of final match weight)",
    "subtitle": "Use mousewheel to zoom"
  },
  "params": [
    {
      "name": "iteration_number",
      "value": 0,
      "bind": {"input": "range", "min": 0, "max": 10, "step": 1, "name": "Iteration number: "}
    }
  ],
  "data": {"values": []},
  "transform": [{"filter": "(datum.iteration == iteration_number)"}],
  "vconcat": [
    {
      "height": 20,
      "mark": {"type": "bar", "clip": true, "height": 15},
      "params": [
        {"name": "mouse_zoom", "select": {"type": "interval", "encodings": ["x"]}, "bind": "scales"}
      ],
      "transform": [
        {"filter": "(datum.comparison_name == 'probability_two_random_records_match')"}
      ],
      "encoding": {
        "color": {
          "type": "quantitative",
          "field": "log2_bayes_factor",
          "title": "Match weight",
          "scale": {"domain": [-10, 0, 10], "range": ["red", "#bbbbbb", "green"], "interpolate": "lab"}
        },
        "tooltip": [
          {"type": "nominal", "field": "comparison_name", "title": "Comparison"},
          {"type": "ordinal", "field": "probability_two_random_records_match", "title": "Probability two random records match", "format": ".4f"},
          {"type": "quantitative", "field": "log2_bayes_factor", "title": "Equivalent match weight", "format": ",.4f"},
          {"type": "nominal", "field": "bayes_factor_description", "title": "Match weight description"}
        ],
        "x": {
          "type": "quantitative",
          "field": "log2_bayes_factor",
          "title": "Prior match weight",
          "scale": {"domain": [-10, 10]},
          "axis": {
            "title": "Prior (starting) match weight",
            "gridColor": {"condition": {"test": "abs(datum.value / 10) <= 1 & datum.value % 10 === 0", "value": "#aaa"}, "value": "#ddd"},
            "gridDash": {"condition": {"test": "abs(datum.value / 10) == 1", "value": [3]}, "value": null},
            "gridWidth": {"condition": {"test": "abs(datum.value / 10) <= 1 & datum.value % 10 === 0", "value": 2}, "value": 1}
          }
        },
        "y": {
          "type": "nominal",
          "field": "label_for_charts",
          "sort": {"field": "comparison_vector_value", "order": "descending"},
          "axis": {"title": null}
        }
      }
    },
    {
      "height": {"step": 12},
      "mark": {"type": "bar", "clip": true},
      "params": [
        {"name": "mouse_zoom", "select": {"type": "interval", "encodings": ["x"]}, "bind": "scales"}
      ],
      "transform": [
        {"filter": "(datum.comparison_name != 'probability_two_random_records_match')"}
      ],
      "encoding": {
        "color": {
          "type": "quantitative",
          "field": "log2_bayes_factor",
          "title": "Match weight",
          "scale": {"domain": [-10, 0, 10], "range": ["red", "#bbbbbb", "green"], "interpolate": "lab"}
        },
        "row": {
          "type": "nominal",
          "field": "comparison_name",
          "sort": {"field": "comparison_sort_order"},
          "header": {"labelAlign": "left", "labelAnchor": "middle", "labelAngle": 0, "labelOrient": "left"}
        },
        "tooltip": [
          {"type": "nominal", "field": "comparison_name", "title": "Comparison"},
          {"type": "nominal", "field": "label_for_charts", "title": "Label"},
          {"type": "nominal", "field": "sql_condition", "title": "SQL condition"},
          {"type": "quantitative", "field": "m_probability", "title": "M probability", "format": ".4f"},
          {"type": "quantitative", "field": "u_probability", "title": "U probability", "format": ".4f"},
          {"type": "quantitative", "field": "bayes_factor", "title": "Bayes factor = m/u", "format": ",.4f"},
          {"type": "quantitative", "field": "log2_bayes_factor", "title": "Match weight = log2(m/u)", "format": ",.4f"},
          {"type": "nominal", "field": "bayes_factor_description", "title": "Match weight description"},
          {"type": "nominal", "field": "m_probability_description", "title": "m probability description"},
          {"type": "nominal", "field": "u_probability_description", "title": "u probability description"}
        ],
        "x": {
          "type": "quantitative",
          "field": "log2_bayes_factor",
          "title": "Comparison level match weight = log2(m/u)",
          "scale": {"domain": [-10, 10]},
          "axis": {
            "title": "Comparison level match weight = log2(m/u)",
            "gridColor": {"condition": {"test": "abs(datum.value / 10) <= 1 & datum.value % 10 === 0", "value": "#aaa"}, "value": "#ddd"},
            "gridDash": {"condition": {"test": "abs(datum.value / 10) == 1", "value": [3]}, "value": null},
            "gridWidth": {"condition": {"test": "abs(datum.value / 10) <= 1 & datum.value % 10 === 0", "value": 2}, "value": 1}
          }
        },
        "y": {
          "type": "nominal",
          "field": "label_for_charts",
          "sort": {"field": "comparison_vector_value", "order": "descending"},
          "axis": {"title": null}
        }
      },
      "resolve": {"axis": {"y": "independent"}, "scale": {"y": "independent"}}
    }
  ],
  "resolve": {"axis": {"y": "independent"}, "scale": {"y": "independent"}}
}`
