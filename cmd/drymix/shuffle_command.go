package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/drymix"
)

func newShuffleCommand(ctx *commandContext) *cobra.Command {
	var (
		f         inputFlags
		mode      string
		blockSize int
		repeat    int
		duplicate []int
		dupTimes  int
		seed      uint64
	)

	cmd := &cobra.Command{
		Use:   "shuffle [clips...]",
		Short: "Print the clip order a build would use",
		Long: `Shuffle prints one shuffled order of the input clips without running ffmpeg.
With --duplicate the chosen clips are added again (--duplicate-times copies in
total). With --repeat the list is then repeated and, unless --block-size is
given, shuffled in blocks of the pre-repeat length.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("mode") {
				cfg.Order.Mode = mode
			}
			if cmd.Flags().Changed("block-size") {
				cfg.Order.BlockSize = blockSize
			}
			if cmd.Flags().Changed("repeat") {
				cfg.Order.Repeat = repeat
			}
			if cmd.Flags().Changed("duplicate") {
				cfg.Order.Duplicate = duplicate
			}
			if cmd.Flags().Changed("duplicate-times") {
				cfg.Order.DuplicateTimes = dupTimes
			}
			cfg.Order.ShuffleEachJob = true

			clips, err := f.clips(args, ctx.logger())
			if err != nil {
				return err
			}

			var opts []drymix.Option
			if cmd.Flags().Changed("seed") {
				opts = append(opts, drymix.WithSeed(seed))
			}
			order, err := drymix.New(opts...).Preview(drymix.Request{Clips: clips, Config: cfg})
			if err != nil {
				return err
			}

			if f.jsonMode {
				return writeJSON(cmd, order)
			}
			out := cmd.OutOrStdout()
			for i, clip := range order {
				fmt.Fprintf(out, "%3d. %s\n", i+1, clip)
			}
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().StringVar(&mode, "mode", "full", "Shuffle mode: full or block")
	cmd.Flags().IntVar(&blockSize, "block-size", 0, "Block size for block mode (0 infers it)")
	cmd.Flags().IntVar(&repeat, "repeat", 1, "Repeat the clip list N times before shuffling")
	cmd.Flags().IntSliceVar(&duplicate, "duplicate", nil, "Clip numbers (1-based, input order) to duplicate")
	cmd.Flags().IntVar(&dupTimes, "duplicate-times", 2, "Total copies of each duplicated clip")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for a reproducible order")
	return cmd
}
