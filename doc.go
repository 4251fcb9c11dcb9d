// Package evomuse is an evolutionary search engine for generative-music
// prompts. It optimizes either free-text prompts or continuous embedding
// vectors against a scalar fitness score produced by rendering and scoring
// a piece of music.
//
// The engine supports three search modes:
//   - full-regeneration: the whole population is regenerated each step by a
//     text-generation oracle given a ranked report of the previous generation
//   - operator-pipeline: offspring are produced by a configurable pipeline of
//     probability-gated genetic operators backed by the oracle
//   - continuous: a population-based optimizer over fixed-length embedding
//     vectors; any backend satisfying the optimizer contract can be plugged in
//
// Key Components:
//
//   - core: the Solution/Population data model, the optimizer contract shared
//     by every search backend, and the collaborator interfaces for artifact
//     generation and fitness scoring.
//
//   - oracle: the text-generation oracle used to seed populations and to power
//     genetic operators, with OpenAI-compatible and Anthropic transports, a
//     circuit breaker, and the delimited-tag response parser.
//
//   - search: selection policies (elitism, novelty injection, tournament,
//     softmax sampling), the operator pipeline, the text-mode PromptSearcher,
//     a reference continuous GA backend, and the Evolver orchestrator.
//
//   - problem: the bridge between abstract optimization and domain
//     evaluation, including initial-population generation and per-evaluation
//     progress/ETA accounting.
//
//   - archive: a SQLite store for per-generation results and the final
//     population of a run.
package evomuse
