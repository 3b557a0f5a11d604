package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"gdprlens-backend/models"
)

// fakeScorer returns fixed raw scores, or an error.
type fakeScorer struct {
	scores []float64
	err    error
	texts  []string
}

func (f *fakeScorer) ScorePairs(ctx context.Context, query string, texts []string) ([]float64, error) {
	f.texts = texts
	if f.err != nil {
		return nil, f.err
	}
	return f.scores, nil
}

func rerankCandidates(n int) []models.Candidate {
	out := make([]models.Candidate, n)
	for i := range out {
		out[i] = candidate(string(rune('a'+i)), "Article 6 lawfulness of processing text")
	}
	return out
}

func TestRerank_Empty(t *testing.T) {
	r := NewReranker(&fakeScorer{}, DefaultPipelineConfig())
	out, err := r.Rerank(context.Background(), "q", nil, 5)
	if err != nil {
		t.Fatalf("Rerank: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("got %d candidates, want 0", len(out))
	}
}

func TestRerank_NormalizesAndSorts(t *testing.T) {
	scorer := &fakeScorer{scores: []float64{-4.0, 2.0, 8.0}}
	r := NewReranker(scorer, DefaultPipelineConfig())

	out, err := r.Rerank(context.Background(), "q", rerankCandidates(3), 5)
	if err != nil {
		t.Fatalf("Rerank: %v", err)
	}

	// Raw 8.0 normalizes to 1.0 and 2.0 to 0.5; -4.0 normalizes to 0.0,
	// below the Marginal threshold, so it is dropped.
	if len(out) != 2 {
		t.Fatalf("got %d candidates, want 2", len(out))
	}
	if out[0].ChunkID != "c" || *out[0].RerankScore != 1.0 {
		t.Errorf("best candidate = %q score %v", out[0].ChunkID, *out[0].RerankScore)
	}
	if *out[0].Tier != models.TierExcellent {
		t.Errorf("best tier = %v, want Excellent", *out[0].Tier)
	}
	if out[1].ChunkID != "b" || math.Abs(*out[1].RerankScore-0.5) > 1e-9 {
		t.Errorf("second candidate = %q score %v", out[1].ChunkID, *out[1].RerankScore)
	}
	if *out[1].Tier != models.TierGood {
		t.Errorf("second tier = %v, want Good", *out[1].Tier)
	}
}

func TestRerank_DropsBelowMarginal(t *testing.T) {
	scorer := &fakeScorer{scores: []float64{0.0, 10.0}}
	r := NewReranker(scorer, DefaultPipelineConfig())

	out, err := r.Rerank(context.Background(), "q", rerankCandidates(2), 5)
	if err != nil {
		t.Fatalf("Rerank: %v", err)
	}

	// The low candidate normalizes to 0.0, below the Marginal threshold.
	if len(out) != 1 {
		t.Fatalf("got %d candidates, want 1", len(out))
	}
	if out[0].ChunkID != "b" {
		t.Errorf("kept candidate = %q", out[0].ChunkID)
	}
}

func TestRerank_DegenerateBatchUniformScores(t *testing.T) {
	scorer := &fakeScorer{scores: []float64{3.7, 3.7, 3.7}}
	r := NewReranker(scorer, DefaultPipelineConfig())

	out, err := r.Rerank(context.Background(), "q", rerankCandidates(3), 5)
	if err != nil {
		t.Fatalf("Rerank: %v", err)
	}

	if len(out) != 3 {
		t.Fatalf("got %d candidates, want 3 (uniform batch keeps everything)", len(out))
	}
	for _, c := range out {
		if *c.RerankScore != 0.5 {
			t.Errorf("score = %v, want uniform 0.5", *c.RerankScore)
		}
		if *c.Tier != models.TierGood {
			t.Errorf("tier = %v, want Good for 0.5", *c.Tier)
		}
	}
}

func TestRerank_StableForEqualScores(t *testing.T) {
	// b, c and d tie at a mid score; a normalizes to 0.0 and drops out.
	scorer := &fakeScorer{scores: []float64{0.0, 5.0, 5.0, 5.0, 9.0}}
	r := NewReranker(scorer, DefaultPipelineConfig())

	out, err := r.Rerank(context.Background(), "q", rerankCandidates(5), 5)
	if err != nil {
		t.Fatalf("Rerank: %v", err)
	}

	if len(out) != 4 {
		t.Fatalf("got %d candidates, want 4", len(out))
	}
	if out[0].ChunkID != "e" {
		t.Fatalf("best candidate = %q, want e", out[0].ChunkID)
	}
	// Ties keep retrieval order.
	want := []string{"b", "c", "d"}
	for i, id := range want {
		if out[i+1].ChunkID != id {
			t.Errorf("tie position %d = %q, want %q", i, out[i+1].ChunkID, id)
		}
	}
}

func TestRerank_TruncatesToTopK(t *testing.T) {
	scorer := &fakeScorer{scores: []float64{1, 2, 3, 4, 5, 6, 7, 8}}
	r := NewReranker(scorer, DefaultPipelineConfig())

	out, err := r.Rerank(context.Background(), "q", rerankCandidates(8), 3)
	if err != nil {
		t.Fatalf("Rerank: %v", err)
	}
	if len(out) != 3 {
		t.Errorf("got %d candidates, want 3", len(out))
	}
}

func TestRerank_ScorerFailureFallsBackToRetrievalOrder(t *testing.T) {
	scorer := &fakeScorer{err: errors.New("rerank service down")}
	r := NewReranker(scorer, DefaultPipelineConfig())

	out, err := r.Rerank(context.Background(), "q", rerankCandidates(8), 3)
	if err != nil {
		t.Fatalf("Rerank should degrade, got: %v", err)
	}

	if len(out) != 3 {
		t.Fatalf("got %d candidates, want 3", len(out))
	}
	for i, id := range []string{"a", "b", "c"} {
		if out[i].ChunkID != id {
			t.Errorf("position %d = %q, want retrieval order", i, out[i].ChunkID)
		}
		if out[i].Tier != nil {
			t.Errorf("candidate %q has a tier despite failed scoring", out[i].ChunkID)
		}
	}
}

func TestRerank_ScoreCountMismatchFallsBack(t *testing.T) {
	scorer := &fakeScorer{scores: []float64{1.0}}
	r := NewReranker(scorer, DefaultPipelineConfig())

	out, err := r.Rerank(context.Background(), "q", rerankCandidates(3), 5)
	if err != nil {
		t.Fatalf("Rerank should degrade, got: %v", err)
	}
	if len(out) != 3 {
		t.Errorf("got %d candidates, want all 3 in retrieval order", len(out))
	}
}

func TestRerank_TruncatesTextSentToScorer(t *testing.T) {
	cfg := DefaultPipelineConfig()
	cfg.RerankTruncateLen = 10

	long := candidate("long", "Article 6 lawfulness of processing with a very long tail of text")
	scorer := &fakeScorer{scores: []float64{1.0}}
	r := NewReranker(scorer, cfg)

	if _, err := r.Rerank(context.Background(), "q", []models.Candidate{long}, 5); err != nil {
		t.Fatalf("Rerank: %v", err)
	}

	if len(scorer.texts[0]) != 10 {
		t.Errorf("scored text length = %d, want 10", len(scorer.texts[0]))
	}
}

func TestHTTPPairScorer_ScorePairs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rerankRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Query != "consent" || len(req.Documents) != 2 {
			t.Errorf("unexpected request: %+v", req)
		}
		json.NewEncoder(w).Encode(rerankResponse{Scores: []float64{0.9, 0.1}})
	}))
	defer srv.Close()

	scorer := NewHTTPPairScorer(srv.URL)
	scores, err := scorer.ScorePairs(context.Background(), "consent", []string{"a", "b"})
	if err != nil {
		t.Fatalf("ScorePairs: %v", err)
	}
	if len(scores) != 2 || scores[0] != 0.9 || scores[1] != 0.1 {
		t.Errorf("scores = %v", scores)
	}
}

func TestHTTPPairScorer_BadRequestNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	scorer := NewHTTPPairScorer(srv.URL)
	if _, err := scorer.ScorePairs(context.Background(), "q", []string{"a"}); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("got %d calls, want 1 (400 must not be retried)", calls)
	}
}

func TestHTTPPairScorer_ScoreCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(rerankResponse{Scores: []float64{0.5}})
	}))
	defer srv.Close()

	scorer := NewHTTPPairScorer(srv.URL)
	if _, err := scorer.ScorePairs(context.Background(), "q", []string{"a", "b"}); err == nil {
		t.Fatal("expected error for score/document count mismatch")
	}
}
