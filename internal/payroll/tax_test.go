package payroll_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hris-go-api/internal/payroll"
)

func TestComputeProgressiveTaxBelowRelief(t *testing.T) {
	result, err := payroll.ComputeProgressiveTax(150000, 50000)
	require.NoError(t, err)

	require.Equal(t, 200000.0, result.Gross)
	require.Equal(t, 12000.0, result.Pension)
	require.Equal(t, 240000.0, result.ReliefAllowance)
	require.Equal(t, 0.0, result.TaxableIncome)
	require.Equal(t, 0.0, result.Tax)
	require.Empty(t, result.Bands)
	require.Equal(t, 188000.0, result.Net)
}

func TestComputeProgressiveTaxSpansBands(t *testing.T) {
	// gross 1,000,000: pension 64,000, relief 200,000 + 200,000, taxable 536,000
	result, err := payroll.ComputeProgressiveTax(800000, 200000)
	require.NoError(t, err)

	require.Equal(t, 1000000.0, result.Gross)
	require.Equal(t, 64000.0, result.Pension)
	require.Equal(t, 400000.0, result.ReliefAllowance)
	require.Equal(t, 536000.0, result.TaxableIncome)

	require.Len(t, result.Bands, 6)
	require.Equal(t, payroll.BandTax{Rate: 0.07, Taxable: 30000, Tax: 2100}, result.Bands[0])
	require.Equal(t, payroll.BandTax{Rate: 0.11, Taxable: 30000, Tax: 3300}, result.Bands[1])
	require.Equal(t, payroll.BandTax{Rate: 0.15, Taxable: 50000, Tax: 7500}, result.Bands[2])
	require.Equal(t, payroll.BandTax{Rate: 0.19, Taxable: 50000, Tax: 9500}, result.Bands[3])
	require.Equal(t, payroll.BandTax{Rate: 0.21, Taxable: 160000, Tax: 33600}, result.Bands[4])
	require.Equal(t, payroll.BandTax{Rate: 0.24, Taxable: 216000, Tax: 51840}, result.Bands[5])

	require.Equal(t, 107840.0, result.Tax)
	require.Equal(t, 828160.0, result.Net)
}

func TestComputeProgressiveTaxPartialBand(t *testing.T) {
	// gross 400,000: pension 32,000, relief 280,000, taxable 88,000
	result, err := payroll.ComputeProgressiveTax(400000, 0)
	require.NoError(t, err)

	require.Equal(t, 88000.0, result.TaxableIncome)
	require.Len(t, result.Bands, 3)
	require.Equal(t, 28000.0, result.Bands[2].Taxable)
	require.Equal(t, 9600.0, result.Tax)
}

func TestComputeProgressiveTaxRejectsNegativeInput(t *testing.T) {
	_, err := payroll.ComputeProgressiveTax(-1, 0)
	require.ErrorIs(t, err, payroll.ErrNegativeAmount)

	_, err = payroll.ComputeProgressiveTax(1000, -5)
	require.ErrorIs(t, err, payroll.ErrNegativeAmount)
}
