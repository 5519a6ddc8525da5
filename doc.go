// Package dividends provides the domain types to retrieve, cache and analyze the
// daily price and dividend history of individual securities.
//
// The core functionalities are split in sub packages:
//   - cache: a file-backed cache of one daily series per security, plus a
//     registry of the cached securities and their last refresh date. It decides
//     whether to reuse the series on disk or to fetch it again from the
//     rate-limited remote source.
//   - alphavantage and eodhd: the remote sources, fetching the full daily
//     adjusted history of a symbol.
//   - analysis: reduces a daily series into yearly yield and dividend tables, a
//     projection of the current year and a summary with target prices.
//   - renderer: formats an analysis into markdown.
//   - agent: an assistant, backed by Gemini, discussing analyses.
//
// This package holds what they share: the security identifier (ID), the daily
// records (Series), percentages and the error taxonomy.
//
// This package serves as the foundational logic for the `dvd` command-line tool.
package dividends
