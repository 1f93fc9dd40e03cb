// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/gaussmix/matrix"
)

func newSVDCmd() *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "svd <matrix>",
		Short: "Print the singular value decomposition of a matrix file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := readObservations(args[0])
			if err != nil {
				return err
			}
			U, S, Vt, err := matrix.SVD(m)
			if errors.Is(err, matrix.ErrSVDNotConverged) {
				log.Warn().Err(err).Msg("singular values may be inaccurate")
			} else if err != nil {
				return err
			}

			return printSVD(cmd.OutOrStdout(), U, S, Vt, full)
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "Print U and Vᵀ in full instead of abbreviated")

	return cmd
}

func printSVD(w io.Writer, U, S, Vt *matrix.Dense, full bool) error {
	show := func(m *matrix.Dense) string {
		if m == nil {
			return "[]\n"
		}
		if full {
			return m.String()
		}
		return m.Abbrev()
	}
	_, err := fmt.Fprintf(w, "S:\n%sU:\n%sVt:\n%s", show(S), show(U), show(Vt))

	return err
}
