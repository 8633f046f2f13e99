package window

// Cosine-sum coefficient tables, expressed as w(x) = sum_k (-1)^k*coeffs[k]*cos(k*2*pi*x).
// Each table is normalized so that w(0.5) == 1 at the window centre.
var (
	hannCoeffs             = []float64{0.5, 0.5}
	hammingCoeffs          = []float64{0.54, 0.46}
	blackmanCoeffs         = []float64{0.42, 0.5, 0.08}
	exactBlackmanCoeffs    = []float64{0.426591, 0.496561, 0.076849}
	blackmanHarris3Coeffs  = []float64{0.42323, 0.49755, 0.07922}
	blackmanHarris4Coeffs  = []float64{0.35875, 0.48829, 0.14128, 0.01168}
	blackmanNuttallCoeffs  = []float64{0.3635819, 0.4891775, 0.1365995, 0.0106411}
	nuttallCTDCoeffs       = []float64{0.355768, 0.487396, 0.144232, 0.012604}
	nuttallCFDCoeffs       = []float64{0.3635819, 0.4891775, 0.1365995, 0.0106411}
	flatTopCoeffs          = []float64{0.21557895, 0.41663158, 0.277263158, 0.083578947, 0.006947368}
	lawrey5Coeffs          = []float64{0.21747, 0.45325, 0.28244, 0.04642, 0.00042}
	lawrey6Coeffs          = []float64{0.239696, 0.427923, 0.257327, 0.065991, 0.008522, 0.000541}
	burgess59Coeffs        = []float64{0.42323, 0.49755, 0.07922}
	burgess71Coeffs        = []float64{0.35875, 0.48829, 0.14128, 0.01168}
	albrecht2Coeffs        = []float64{0.6, 0.4}
	albrecht3Coeffs        = []float64{0.42659, 0.49656, 0.07685}
	albrecht4Coeffs        = []float64{0.35875, 0.48829, 0.14128, 0.01168}
	albrecht5Coeffs        = []float64{0.293557, 0.451935, 0.201416, 0.046165, 0.005217}
	albrecht6Coeffs        = []float64{0.245293, 0.430894, 0.241279, 0.065961, 0.008458, 0.000398}
	albrecht7Coeffs        = []float64{0.208700, 0.406192, 0.263559, 0.089023, 0.014810, 0.001025, 0.000004}
	albrecht8Coeffs        = []float64{0.180248, 0.380455, 0.273799, 0.107945, 0.022263, 0.002289, 0.000090, 0.000001}
	albrecht9Coeffs        = []float64{0.157508, 0.355328, 0.277152, 0.123221, 0.031274, 0.004280, 0.000278, 0.000005, 0}
	albrecht10Coeffs       = []float64{0.139027, 0.332241, 0.276810, 0.135120, 0.040854, 0.007292, 0.000667, 0.000025, 0, 0}
	albrecht11Coeffs       = []float64{0.123719, 0.311188, 0.273999, 0.144305, 0.051514, 0.011634, 0.001460, 0.000102, 0.000003, 0, 0}
)

// metadataByType carries the static spectral properties quoted for each
// window shape in the standard references (Harris 1978, Nuttall 1981).
// Values are for the symmetric form at typical analysis lengths.
var metadataByType = map[Type]Metadata{
	TypeRectangular:         {Name: "Rectangular", ENBW: 1.0, HighestSidelobe: -13.3, CoherentGain: 1.0, CoherentGainSquared: 1.0},
	TypeHann:                {Name: "Hann", ENBW: 1.5, HighestSidelobe: -31.5, CoherentGain: 0.5, CoherentGainSquared: 0.25},
	TypeHamming:             {Name: "Hamming", ENBW: 1.36, HighestSidelobe: -42.7, CoherentGain: 0.54, CoherentGainSquared: 0.2916},
	TypeBlackman:            {Name: "Blackman", ENBW: 1.73, HighestSidelobe: -58.1, CoherentGain: 0.42, CoherentGainSquared: 0.1764},
	TypeBlackmanHarris4Term: {Name: "Blackman-Harris (4-term)", ENBW: 2.0, HighestSidelobe: -92.0, CoherentGain: 0.35875, CoherentGainSquared: 0.12870},
	TypeFlatTop:             {Name: "Flat Top", ENBW: 3.77, HighestSidelobe: -93.0, CoherentGain: 0.2156, CoherentGainSquared: 0.04648},
}
