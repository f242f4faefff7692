package faces

import (
	"image"
	"math"
	"sort"

	"github.com/arkdale/photon/utils"
)

// descriptorSize is the side of the normalized grayscale patch a face is
// reduced to before comparison
const descriptorSize = 32

// Describe reduces a face crop to a fixed-size, brightness-normalized
// grayscale vector. Two crops of the same face under different lighting
// land close together under Euclidean distance.
func Describe(face image.Image) []float64 {
	scaled := utils.ScaleToExact(face, descriptorSize, descriptorSize)

	vec := make([]float64, 0, descriptorSize*descriptorSize)
	var sum float64
	for y := 0; y < descriptorSize; y++ {
		for x := 0; x < descriptorSize; x++ {
			l := utils.Luminance(scaled.At(x, y))
			vec = append(vec, l)
			sum += l
		}
	}

	mean := sum / float64(len(vec))
	var variance float64
	for i := range vec {
		vec[i] -= mean
		variance += vec[i] * vec[i]
	}
	stddev := math.Sqrt(variance / float64(len(vec)))
	if stddev < 1e-9 {
		return vec
	}
	for i := range vec {
		vec[i] /= stddev
	}
	return vec
}

// Distance is the normalized Euclidean distance between two descriptors
func Distance(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(a)))
}

// Sample is a labeled descriptor the recognizer trains on
type Sample struct {
	PersonID   int64
	Descriptor []float64
}

// Recognizer predicts the person behind a face by nearest neighbours
// over the confirmed descriptors
type Recognizer struct {
	samples   []Sample
	threshold float64
}

// NewRecognizer builds a recognizer from confirmed samples. Predictions
// whose mean neighbour distance exceeds the threshold are discarded.
func NewRecognizer(samples []Sample, threshold float64) *Recognizer {
	return &Recognizer{samples: samples, threshold: threshold}
}

// Predict returns the most likely person for a descriptor and an
// uncertainty in [0, 1]. ok is false when no confident match exists.
func (r *Recognizer) Predict(descriptor []float64) (personID int64, uncertainty float64, ok bool) {
	if len(r.samples) == 0 {
		return 0, 1, false
	}

	type neighbour struct {
		personID int64
		distance float64
	}

	neighbours := make([]neighbour, 0, len(r.samples))
	for _, s := range r.samples {
		neighbours = append(neighbours, neighbour{s.PersonID, Distance(descriptor, s.Descriptor)})
	}
	sort.Slice(neighbours, func(i, j int) bool {
		return neighbours[i].distance < neighbours[j].distance
	})

	k := int(math.Sqrt(float64(len(neighbours))))
	if k < 1 {
		k = 1
	}
	if k > len(neighbours) {
		k = len(neighbours)
	}

	votes := make(map[int64]int)
	distances := make(map[int64]float64)
	for _, n := range neighbours[:k] {
		votes[n.personID]++
		distances[n.personID] += n.distance
	}

	best := int64(0)
	bestVotes := 0
	for id, count := range votes {
		if count > bestVotes {
			best = id
			bestVotes = count
		}
	}

	meanDistance := distances[best] / float64(votes[best])
	normalized := meanDistance / (meanDistance + 1)
	if normalized > r.threshold {
		return 0, 1, false
	}
	return best, normalized, true
}
