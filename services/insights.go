package services

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"property-analytics/analytics"
	"property-analytics/models"
	"property-analytics/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Summarize computes the headline numbers sent alongside a listing set.
// Averages are floored to whole units; only present values count.
func (s *InsightService) Summarize(listings []models.Listing) models.Summary {
	summary := models.Summary{SqFtDistribution: "N/A"}

	var priceTotal float64
	var priced int
	var areaTotal, minArea, maxArea float64
	var sized int

	for _, l := range listings {
		if l.Price != nil {
			priceTotal += *l.Price
			priced++
		}
		if l.Area != nil {
			a := *l.Area
			if sized == 0 || a < minArea {
				minArea = a
			}
			if sized == 0 || a > maxArea {
				maxArea = a
			}
			areaTotal += a
			sized++
		}
	}

	if priced > 0 {
		summary.AveragePrice = math.Floor(priceTotal / float64(priced))
	}
	if sized > 0 {
		summary.AvgSquareFootage = math.Floor(areaTotal / float64(sized))
		summary.SqFtDistribution = formatNumber(minArea) + "-" + formatNumber(maxArea)
	}
	if summary.AvgSquareFootage > 0 {
		summary.PricePerSqFt = math.Floor(summary.AveragePrice / summary.AvgSquareFootage)
	}

	s.logger.Debug("[insights] Summarized %d listings (%d priced, %d sized)", len(listings), priced, sized)
	return summary
}

// Print writes the terminal report to stdout.
func (s *InsightService) Print(r *analytics.Report, summary models.Summary) {
	s.Fprint(os.Stdout, r, summary)
}

// Fprint writes the terminal report to w.
func (s *InsightService) Fprint(w io.Writer, r *analytics.Report, summary models.Summary) {
	sep := strings.Repeat("═", 60)
	thin := strings.Repeat("─", 60)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  📊 PROPERTY SEARCH INSIGHTS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Displaying %d out of %d properties\n", r.Displayed, r.Total)
	fmt.Fprintf(w, "  Average price        : \033[1;32m£%s\033[0m\n", formatMoney(summary.AveragePrice))
	fmt.Fprintf(w, "  Average square feet  : \033[1m%s\033[0m\n", formatNumber(summary.AvgSquareFootage))
	fmt.Fprintf(w, "  Price per sq ft      : \033[1;32m£%s\033[0m\n", formatMoney(summary.PricePerSqFt))
	fmt.Fprintf(w, "  Sq ft range          : %s\n", summary.SqFtDistribution)
	fmt.Fprintln(w)

	printHistogram(w, thin, "Price Distribution", r.PriceHistogram, func(b float64) string {
		return "£" + formatMoney(b/1000) + "k"
	})
	printHistogram(w, thin, "Square Footage Distribution", r.AreaHistogram, func(b float64) string {
		return formatNumber(b) + " sq ft"
	})

	printTop(w, thin, "Best Value by Price per Sq Ft", r.TopByPricePerArea, func(l models.DerivedListing) string {
		return "£" + formatMoney(round2(*l.PricePerArea)) + "/sq ft"
	})
	printTop(w, thin, "Best Value by Price per Bedroom", r.TopByPricePerBedroom, func(l models.DerivedListing) string {
		return "£" + formatMoney(round2(*l.PricePerBedroom)) + "/bed"
	})

	// Average price by bedrooms
	fmt.Fprintf(w, "\033[1;33m  Average Price by Bedrooms\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, g := range r.AveragePriceByBedrooms {
		value := "N/A"
		if g.Mean != nil {
			value = "£" + formatMoney(round2(*g.Mean))
		}
		fmt.Fprintf(w, "  %-3s bedrooms : %s\n", formatNumber(g.Group), value)
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func printHistogram(w io.Writer, thin, title string, bins []models.Bin, label func(float64) string) {
	fmt.Fprintf(w, "\033[1;33m  %s\033[0m\n", title)
	fmt.Fprintf(w, "  %s\n", thin)
	if len(bins) == 0 {
		fmt.Fprintf(w, "  No data available for the chart.\n\n")
		return
	}
	for _, b := range bins {
		bar := strings.Repeat("█", b.Count)
		fmt.Fprintf(w, "  %-16s %s (%d)\n", label(b.Bin), bar, b.Count)
	}
	fmt.Fprintln(w)
}

func printTop(w io.Writer, thin, title string, listings []models.DerivedListing, metric func(models.DerivedListing) string) {
	fmt.Fprintf(w, "\033[1;33m  %s\033[0m\n", title)
	fmt.Fprintf(w, "  %s\n", thin)
	if len(listings) == 0 {
		fmt.Fprintf(w, "  No qualifying properties found\n\n")
		return
	}
	for i, l := range listings {
		fmt.Fprintf(w, "  \033[1m%d.\033[0m %-40s \033[1;32m%s\033[0m\n", i+1, truncate(l.Title, 38), metric(l))
	}
	fmt.Fprintln(w)
}

// formatMoney renders v with thousands separators and at most two decimals.
func formatMoney(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if neg {
		out = "-" + out
	}
	if frac != "" {
		if len(frac) > 2 {
			frac = frac[:2]
		}
		out += "." + frac
	}
	return out
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
