// Command mlkemdemo is a thin CLI wrapper around package mlkem: it runs a
// KeyGen/Encaps/Decaps cycle at a chosen security level and reports byte
// sizes, or runs the fixed FIPS 203 known-answer test. It is ambient
// plumbing, not part of the KEM itself.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"mlkem/internal/hashfacade"
	"mlkem/mlkem"
)

func katSeeds() (d, z, m [32]byte) {
	d = hashfacade.H([]byte("randomness d"))
	z = hashfacade.J([]byte("randomness z"))
	m = hashfacade.H([]byte("seed permettant l encapsulation"))
	return d, z, m
}

func main() {
	level := flag.String("level", "768", "security level: 512, 768, or 1024")
	kat := flag.Bool("kat", false, "run the FIPS 203 ML-KEM-768 known-answer test")
	selftest := flag.Bool("selftest", false, "run a full KeyGen/Encaps/Decaps cycle and report sizes")

	flag.Parse()

	if *kat {
		runKAT()
		return
	}

	if *selftest {
		runSelftest(*level)
		return
	}

	printHelp()
}

func parseLevel(s string) (mlkem.Level, error) {
	switch s {
	case "512":
		return mlkem.ML512, nil
	case "768":
		return mlkem.ML768, nil
	case "1024":
		return mlkem.ML1024, nil
	default:
		return 0, fmt.Errorf("unknown level %q", s)
	}
}

func runSelftest(levelFlag string) {
	level, err := parseLevel(levelFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	k := mlkem.New(level)

	ek, dk, err := k.KeyGen(rand.Reader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "KeyGen: %v\n", err)
		os.Exit(1)
	}
	defer dk.Zeroize()

	if err := k.ValidateEncapsulationKey(ek); err != nil {
		fmt.Fprintf(os.Stderr, "ValidateEncapsulationKey: %v\n", err)
		os.Exit(1)
	}

	ss1, ct, err := k.Encapsulate(ek, rand.Reader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Encapsulate: %v\n", err)
		os.Exit(1)
	}
	defer ss1.Zeroize()

	ss2, err := k.Decapsulate(dk, ct)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Decapsulate: %v\n", err)
		os.Exit(1)
	}
	defer ss2.Zeroize()

	fmt.Printf("%s\n", levelName(level))
	fmt.Printf("  ek:  %d bytes\n", len(ek.Bytes))
	fmt.Printf("  dk:  %d bytes\n", len(dk.Bytes))
	fmt.Printf("  ct:  %d bytes\n", len(ct))
	fmt.Printf("  shared secret match: %v\n", ss1 == ss2)
}

func levelName(l mlkem.Level) string {
	switch l {
	case mlkem.ML512:
		return "ML-KEM-512"
	case mlkem.ML768:
		return "ML-KEM-768"
	case mlkem.ML1024:
		return "ML-KEM-1024"
	default:
		return "unknown"
	}
}

func runKAT() {
	k := mlkem.New(mlkem.ML768)

	// d = H("randomness d"), z = J("randomness z"),
	// m = H("seed permettant l encapsulation") -- the fixed FIPS 203
	// intermediate-value test inputs at ML-KEM-768.
	d, z, m := katSeeds()

	ek, dk, err := k.KeyGenInternal(d, z)
	if err != nil {
		fmt.Fprintf(os.Stderr, "KeyGenInternal: %v\n", err)
		os.Exit(1)
	}
	defer dk.Zeroize()

	ss, ct, err := k.EncapsulateInternal(ek, m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "EncapsulateInternal: %v\n", err)
		os.Exit(1)
	}
	defer ss.Zeroize()

	ssDecaps, err := k.DecapsulateInternal(dk, ct)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DecapsulateInternal: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("ciphertext: %s\n", hex.EncodeToString(ct))
	fmt.Printf("shared secret: %s\n", hex.EncodeToString(ss[:]))
	fmt.Printf("decaps agrees with encaps: %v\n", ssDecaps == ss)
}

func printHelp() {
	fmt.Println(`mlkemdemo - ML-KEM (FIPS 203) reference CLI

Usage:
  mlkemdemo -selftest [-level 512|768|1024]   Run KeyGen/Encaps/Decaps once
  mlkemdemo -kat                              Run the ML-KEM-768 known-answer test`)
}
