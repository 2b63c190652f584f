// Command wordvec is the CLI entrypoint for the word-embedding trainer and
// its phrase-detection pre-pass: a thin cobra wrapper over internal/engine,
// internal/vocab, and internal/phrase, mirroring how cmd/sift wraps
// internal/index behind a root command with TOML-then-flags configuration.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/screenager/wordvec/internal/config"
	"github.com/screenager/wordvec/internal/diag"
	"github.com/screenager/wordvec/internal/engine"
	"github.com/screenager/wordvec/internal/phrase"
	"github.com/screenager/wordvec/internal/tokenize"
	"github.com/screenager/wordvec/internal/vecio"
	"github.com/screenager/wordvec/internal/vocab"
)

const (
	defaultConfigPath = ".wordvec.toml"
	trainHashSize     = 30_000_000
	trainMaxTokenLen  = 100
	trainGrowChunk    = 1000
	phraseHashSize    = 500_000_000
	phraseGrowChunk   = 10_000
	cbowAlphaDefault  = 0.05
)

func main() {
	root := &cobra.Command{
		Use:   "wordvec",
		Short: "Train word embeddings with CBOW/skip-gram and HS/NS",
		Long:  "wordvec — a lock-free, data-parallel word2vec-style embedding trainer.",
	}

	root.AddCommand(newTrainCmd())
	root.AddCommand(newPhraseCmd())

	if err := root.Execute(); err != nil {
		diag.Fatal(err)
		os.Exit(1)
	}
}

func newTrainCmd() *cobra.Command {
	cfg := config.DefaultTrain()
	skipGramAlpha := cfg.Alpha
	if err := config.LoadTOML(defaultConfigPath, &cfg); err != nil {
		diag.Fatal(err)
		os.Exit(1)
	}

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train word vectors over a whitespace-tokenized corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Neither a flag nor the TOML file customized alpha away from
			// the skip-gram default, but cbow was selected: switch to the
			// architecture-appropriate default.
			if cfg.CBOW && cfg.Alpha == skipGramAlpha && !cmd.Flags().Changed("alpha") {
				cfg.Alpha = cbowAlphaDefault
			}
			if err := config.ValidateTrain(cfg); err != nil {
				return err
			}
			return runTrain(cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.TrainPath, "train", cfg.TrainPath, "training corpus path (required)")
	f.StringVar(&cfg.OutputPath, "output", cfg.OutputPath, "output vector file path (required)")
	f.IntVar(&cfg.Size, "size", cfg.Size, "embedding dimension")
	f.IntVar(&cfg.Window, "window", cfg.Window, "max half-window for context")
	f.Float64Var(&cfg.Sample, "sample", cfg.Sample, "subsampling threshold (0 disables)")
	f.BoolVar(&cfg.HS, "hs", cfg.HS, "enable hierarchical softmax")
	f.IntVar(&cfg.Negative, "negative", cfg.Negative, "negatives per positive (0 disables NS)")
	f.IntVar(&cfg.Threads, "threads", cfg.Threads, "number of training workers")
	f.IntVar(&cfg.Iter, "iter", cfg.Iter, "training epochs")
	f.IntVar(&cfg.MinCount, "min-count", cfg.MinCount, "vocabulary prune threshold")
	f.Float64Var(&cfg.Alpha, "alpha", cfg.Alpha, "initial learning rate")
	f.IntVar(&cfg.Classes, "classes", cfg.Classes, "k-means cluster count (out of scope — external collaborator)")
	f.IntVar(&cfg.Debug, "debug", cfg.Debug, "log verbosity")
	f.BoolVar(&cfg.Binary, "binary", cfg.Binary, "emit vectors in binary form")
	f.StringVar(&cfg.SaveVocab, "save-vocab", cfg.SaveVocab, "path to persist the trained vocabulary")
	f.StringVar(&cfg.ReadVocab, "read-vocab", cfg.ReadVocab, "path to a previously saved vocabulary to reuse")
	f.BoolVar(&cfg.CBOW, "cbow", cfg.CBOW, "use CBOW architecture (default skip-gram)")

	return cmd
}

func newPhraseCmd() *cobra.Command {
	cfg := config.DefaultPhrase()
	if err := config.LoadTOML(defaultConfigPath, &cfg); err != nil {
		diag.Fatal(err)
		os.Exit(1)
	}

	cmd := &cobra.Command{
		Use:   "phrase",
		Short: "Detect and join statistically significant bigrams with '_'",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ValidatePhrase(cfg); err != nil {
				return err
			}
			return runPhrase(cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.TrainPath, "train", cfg.TrainPath, "corpus path to scan (required)")
	f.StringVar(&cfg.OutputPath, "output", cfg.OutputPath, "rewritten corpus output path (required)")
	f.IntVar(&cfg.MinCount, "min-count", cfg.MinCount, "unigram/bigram significance threshold")
	f.Float64Var(&cfg.Threshold, "threshold", cfg.Threshold, "join-decision score threshold")
	f.IntVar(&cfg.Debug, "debug", cfg.Debug, "log verbosity")

	return cmd
}

func runTrain(cfg config.Train) error {
	if cfg.OutputPath == "" {
		return fmt.Errorf("wordvec: --output is required")
	}

	var vc *vocab.Table
	if cfg.ReadVocab != "" {
		loaded, err := vocab.Load(cfg.ReadVocab, trainHashSize, 0, trainMaxTokenLen, trainGrowChunk)
		if err != nil {
			return fmt.Errorf("wordvec: load vocabulary: %w", err)
		}
		if err := loaded.SortAndPrune(cfg.MinCount); err != nil {
			return fmt.Errorf("wordvec: %w", err)
		}
		vc = loaded
	} else {
		built, err := buildVocabFromCorpus(cfg.TrainPath, cfg.MinCount)
		if err != nil {
			return err
		}
		vc = built
	}

	if cfg.Debug >= 1 {
		diag.Info(fmt.Sprintf("vocabulary: %d tokens, %d corpus words", vc.Len(), vc.NTotal()))
	}

	if cfg.SaveVocab != "" {
		if err := vc.Save(cfg.SaveVocab); err != nil {
			return fmt.Errorf("wordvec: save vocabulary: %w", err)
		}
	}

	arch := engine.SkipGram
	if cfg.CBOW {
		arch = engine.CBOW
	}
	ecfg := engine.Config{
		Architecture: arch,
		HS:           cfg.HS,
		NS:           cfg.Negative > 0,
		Window:       cfg.Window,
		Sample:       cfg.Sample,
		Negative:     cfg.Negative,
		Iter:         cfg.Iter,
		Alpha:        cfg.Alpha,
		Workers:      cfg.Threads,
		Dim:          cfg.Size,
		Debug:        cfg.Debug,
	}

	model, err := engine.Build(vc, ecfg, 1)
	if err != nil {
		return fmt.Errorf("wordvec: %w", err)
	}

	st, err := os.Stat(cfg.TrainPath)
	if err != nil {
		return fmt.Errorf("wordvec: stat corpus: %w", err)
	}

	opener := func(offset int64) (io.ReadCloser, error) {
		f, err := os.Open(cfg.TrainPath)
		if err != nil {
			return nil, err
		}
		if _, err := f.Seek(offset, io.SeekStart); err != nil {
			f.Close()
			return nil, err
		}
		return f, nil
	}

	if err := model.Train(opener, st.Size()); err != nil {
		return fmt.Errorf("wordvec: %w", err)
	}

	if err := writeVectors(cfg.OutputPath, vc, model.Tensors, cfg.Binary); err != nil {
		return err
	}

	diag.Done(fmt.Sprintf("trained %d vectors (dim=%d) -> %s", vc.Len(), cfg.Size, cfg.OutputPath))
	return nil
}

// buildVocabFromCorpus runs the tokenizer over the corpus once, feeding
// every token into a fresh vocabulary table, reducing whenever the load
// factor crosses 0.7, then sorting and pruning.
func buildVocabFromCorpus(path string, minCount int) (*vocab.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wordvec: open corpus: %w", err)
	}
	defer f.Close()

	vc := vocab.New(trainHashSize, 0, trainMaxTokenLen, trainGrowChunk)
	vc.Add(vocab.BoundaryToken)

	tr := tokenize.New(f, trainMaxTokenLen)
	for {
		tok, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("wordvec: read corpus: %w", err)
		}
		vc.AddOrIncr(tok)
		if vc.LoadFactor() > 0.7 {
			vc.Reduce()
		}
	}

	if err := vc.SortAndPrune(minCount); err != nil {
		return nil, fmt.Errorf("wordvec: %w", err)
	}
	return vc, nil
}

func writeVectors(path string, vc *vocab.Table, t *engine.Tensors, binary bool) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wordvec: create output: %w", err)
	}
	defer out.Close()

	tokens := make([]string, vc.Len())
	vectors := make([][]float32, vc.Len())
	for i := 0; i < vc.Len(); i++ {
		tokens[i] = vc.Word(int32(i))
		off := i * t.Dim
		vectors[i] = t.In[off : off+t.Dim]
	}

	if err := vecio.Write(out, tokens, vectors, binary); err != nil {
		return fmt.Errorf("wordvec: %w", err)
	}
	return nil
}

func runPhrase(cfg config.Phrase) error {
	if cfg.OutputPath == "" {
		return fmt.Errorf("wordvec: --output is required")
	}

	opt := phrase.DefaultOptions()
	opt.HashSize = phraseHashSize
	opt.GrowChunk = phraseGrowChunk
	opt.MinCount = cfg.MinCount
	opt.Threshold = cfg.Threshold

	out, err := os.Create(cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("wordvec: create output: %w", err)
	}
	defer out.Close()

	reopen := func() (io.ReadCloser, error) {
		return os.Open(cfg.TrainPath)
	}

	if err := phrase.Run(reopen, out, opt); err != nil {
		return fmt.Errorf("wordvec: %w", err)
	}

	diag.Done(fmt.Sprintf("phrase pass complete -> %s", cfg.OutputPath))
	return nil
}
