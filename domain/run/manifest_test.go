package run

import (
	"testing"

	"randlab/domain/stats"
)

func newTestManifest() *Manifest {
	m := NewManifest(LabDiscrete, 42)
	m.SetParameter("bernoulli.p", 0.7)
	m.SetParameter("size", 1000)
	m.AddSample(SampleRecord{
		Name:        "bernoulli",
		Stem:        "bernoulli_0.70",
		Size:        3,
		Fingerprint: stats.IntSample{1, 0, 1}.Fingerprint(),
	})
	return m
}

func TestManifestFingerprint_Deterministic(t *testing.T) {
	m1 := newTestManifest()
	m2 := newTestManifest()

	if m1.RunID == m2.RunID {
		t.Errorf("Expected distinct run IDs, both were %s", m1.RunID)
	}
	if m1.Fingerprint() != m2.Fingerprint() {
		t.Errorf("Fingerprints not identical: %s vs %s", m1.Fingerprint(), m2.Fingerprint())
	}
}

func TestManifestFingerprint_SensitiveToSamples(t *testing.T) {
	base := newTestManifest()

	other := newTestManifest()
	other.Samples[0].Fingerprint = stats.IntSample{1, 1, 1}.Fingerprint()
	if base.Fingerprint() == other.Fingerprint() {
		t.Error("Different sample fingerprints produced the same manifest fingerprint")
	}

	reseeded := newTestManifest()
	reseeded.Seed = 43
	if base.Fingerprint() == reseeded.Fingerprint() {
		t.Error("Different seeds produced the same manifest fingerprint")
	}
}

func TestManifestValidate(t *testing.T) {
	m := newTestManifest()
	if err := m.Validate(); err != nil {
		t.Fatalf("Valid manifest rejected: %v", err)
	}

	m.AddSample(m.Samples[0])
	if err := m.Validate(); err == nil {
		t.Error("Expected duplicate sample error")
	}

	empty := newTestManifest()
	empty.Samples[0].Fingerprint = ""
	if err := empty.Validate(); err == nil {
		t.Error("Expected missing fingerprint error")
	}

	unknown := newTestManifest()
	unknown.Lab = "bogus"
	if err := unknown.Validate(); err == nil {
		t.Error("Expected unknown lab error")
	}
}
