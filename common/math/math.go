package math

import (
	"math"

	"github.com/montanaflynn/stats"
)

// ArithmeticAverage is the basic form of calculating an average.
// Divide the sum of all values by the length of values
// Returns NaN when there are no values
func ArithmeticAverage(values []float64) float64 {
	avg, err := stats.Mean(values)
	if err != nil {
		return math.NaN()
	}
	return avg
}

// SampleStandardDeviation standard deviation is a statistic that
// measures the dispersion of a dataset relative to its mean and
// is calculated as the square root of the variance
// Returns NaN when fewer than two values are supplied
func SampleStandardDeviation(values []float64) float64 {
	if len(values) <= 1 {
		return math.NaN()
	}
	sd, err := stats.StandardDeviationSample(values)
	if err != nil {
		return math.NaN()
	}
	return sd
}

// PopulationStandardDeviation calculates standard deviation using population
// based calculation
func PopulationStandardDeviation(values []float64) float64 {
	sd, err := stats.StandardDeviationPopulation(values)
	if err != nil {
		return math.NaN()
	}
	return sd
}

// Percentile returns the value below which the given percent of values fall
func Percentile(values []float64, percent float64) float64 {
	p, err := stats.Percentile(values, percent)
	if err != nil {
		return math.NaN()
	}
	return p
}

// CalculateTotalReturn returns the fractional gain or loss between an
// opening and closing value
func CalculateTotalReturn(openValue, closeValue float64) float64 {
	if openValue == 0 {
		return math.NaN()
	}
	return closeValue/openValue - 1
}

// CalculateCompoundAnnualGrowthRate calculates CAGR as a fraction.
// Using years, intervals per year would be 1 and number of intervals would be the number of years
// Using days, intervals per year would be 365 and number of intervals would be the number of days
func CalculateCompoundAnnualGrowthRate(openValue, closeValue, intervalsPerYear, numberOfIntervals float64) float64 {
	if openValue <= 0 || numberOfIntervals == 0 {
		return math.NaN()
	}
	return math.Pow(closeValue/openValue, intervalsPerYear/numberOfIntervals) - 1
}

// CalculateSharpeRatio returns the risk-adjusted return versus the risk-free
// rate, both expressed per interval. The result is not annualized; scale by
// the square root of intervals per year for an annual figure.
// Returns NaN when the deviation of returns is zero
func CalculateSharpeRatio(movementPerCandle []float64, riskFreeRate float64) float64 {
	if len(movementPerCandle) <= 1 {
		return math.NaN()
	}
	excessReturns := make([]float64, len(movementPerCandle))
	for i := range movementPerCandle {
		excessReturns[i] = movementPerCandle[i] - riskFreeRate
	}
	standardDeviation := SampleStandardDeviation(movementPerCandle)
	if standardDeviation == 0 || math.IsNaN(standardDeviation) {
		return math.NaN()
	}
	return ArithmeticAverage(excessReturns) / standardDeviation
}

// CalculateSortinoRatio returns the excess return versus the downside
// deviation, both expressed per interval
// Returns NaN when no returns fall below the risk-free rate
func CalculateSortinoRatio(movementPerCandle []float64, riskFreeRate float64) float64 {
	if len(movementPerCandle) == 0 {
		return math.NaN()
	}
	totalNegativeResultsSquared := 0.0
	for x := range movementPerCandle {
		if movementPerCandle[x]-riskFreeRate < 0 {
			totalNegativeResultsSquared += math.Pow(movementPerCandle[x]-riskFreeRate, 2)
		}
	}
	if totalNegativeResultsSquared == 0 {
		return math.NaN()
	}
	averageDownsideDeviation := math.Sqrt(totalNegativeResultsSquared / float64(len(movementPerCandle)))
	return (ArithmeticAverage(movementPerCandle) - riskFreeRate) / averageDownsideDeviation
}
