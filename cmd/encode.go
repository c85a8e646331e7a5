package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/blurhash-cli/internal/blurhash"
	"github.com/AnyUserName/blurhash-cli/internal/imageio"
)

var (
	encodeX       int
	encodeY       int
	encodeMaxDim  int
	encodeProfile string
	encodeRaw     bool
	encodeWidth   int
	encodeHeight  int
	encodeMode    string
)

var encodeCmd = &cobra.Command{
	Use:   "encode <image>",
	Short: "Print the BlurHash of an image file",
	Long: `Decodes an image (png, jpeg, gif, webp, bmp, tiff), fits it inside
--max-dim pixels and prints its BlurHash.

With --raw the file is read as packed 8-bit pixels instead; --width,
--height and --mode describe the layout.`,
	Args: cobra.ExactArgs(1),
	RunE: runEncode,
}

func init() {
	encodeCmd.Flags().IntVarP(&encodeX, "x-components", "x", 0, "horizontal components 1-9 (0 = profile)")
	encodeCmd.Flags().IntVarP(&encodeY, "y-components", "y", 0, "vertical components 1-9 (0 = profile)")
	encodeCmd.Flags().IntVar(&encodeMaxDim, "max-dim", -1, "downsample to fit this size before hashing (-1 = profile, 0 = off)")
	encodeCmd.Flags().StringVarP(&encodeProfile, "profile", "p", "", "hashing profile")
	encodeCmd.Flags().BoolVar(&encodeRaw, "raw", false, "read raw pixels instead of an image file")
	encodeCmd.Flags().IntVar(&encodeWidth, "width", 0, "raw image width")
	encodeCmd.Flags().IntVar(&encodeHeight, "height", 0, "raw image height")
	encodeCmd.Flags().StringVar(&encodeMode, "mode", "rgb", "raw pixel layout: rgb or rgba")
	rootCmd.AddCommand(encodeCmd)
}

func runEncode(cmd *cobra.Command, args []string) error {
	set, err := loadProfiles()
	if err != nil {
		return err
	}
	prof := resolveProfile(set, encodeProfile)
	if encodeX > 0 {
		prof.XComponents = encodeX
	}
	if encodeY > 0 {
		prof.YComponents = encodeY
	}
	if encodeMaxDim >= 0 {
		prof.MaxDim = encodeMaxDim
	}
	if err := prof.Validate(); err != nil {
		return err
	}
	logVerbose("profile: %s (%dx%d, max-dim=%d)", prof.Name, prof.XComponents, prof.YComponents, prof.MaxDim)

	var hash string
	if encodeRaw {
		hash, err = encodeRawFile(args[0], prof.XComponents, prof.YComponents)
	} else {
		hash, err = encodeImageFile(args[0], imageio.NewAdapter(prof.MaxDim), prof.XComponents, prof.YComponents)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}

func encodeImageFile(path string, adapter *imageio.Adapter, x, y int) (string, error) {
	img, err := imageio.Load(path)
	if err != nil {
		return "", err
	}
	b := img.Bounds()
	logVerbose("decoded %s: %dx%d", path, b.Dx(), b.Dy())

	hash, err := blurhash.EncodeImage(adapter, img, x, y)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", path, err)
	}
	return hash, nil
}

func encodeRawFile(path string, x, y int) (string, error) {
	mode, err := parseMode(encodeMode)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	hash, err := blurhash.Encode(blurhash.PixelBuffer{
		Pix:    data,
		Width:  encodeWidth,
		Height: encodeHeight,
		Mode:   mode,
	}, x, y)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", path, err)
	}
	return hash, nil
}

func parseMode(s string) (blurhash.PixelMode, error) {
	switch s {
	case "rgb", "RGB":
		return blurhash.RGB, nil
	case "rgba", "RGBA":
		return blurhash.RGBA, nil
	}
	return 0, fmt.Errorf("unknown pixel mode %q (want rgb or rgba)", s)
}
