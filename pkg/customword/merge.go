package customword

import "github.com/PixelogicMedia/worddiff/pkg/word"

// MergeOptions returns the options a diff should run with given the
// caller's options and the registry's pattern.
//
// Without an installed pattern opts is returned as is, nil included. With
// one, a new Options is returned carrying every caller field and the
// registry pattern, which overrides any TokenPattern the caller set. opts
// itself is never modified.
func MergeOptions(opts *word.Options, pattern string, installed bool) *word.Options {
	if !installed {
		return opts
	}
	merged := opts.Clone()
	merged.TokenPattern = pattern
	return merged
}

// Merge applies the registry's current pattern to opts. See MergeOptions.
func (r *Registry) Merge(opts *word.Options) *word.Options {
	pattern, ok := r.Pattern()
	return MergeOptions(opts, pattern, ok)
}
