// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package md5simd

import (
	"bytes"
	"crypto/md5"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/rand"
	"testing"
)

type md5Test struct {
	in   string
	want string
}

var golden = []md5Test{
	{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", "014842d480b571495a4a0363793f7367"},
	{"bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", "0b649bcb5a82868817fec9a6e709d233"},
	{"cccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccc", "bcd5708ed79b18f0f0aaa27fd0056d86"},
	{"dddddddddddddddddddddddddddddddddddddddddddddddddddddddddddddddd", "e987c862fbd2f2f0ca859cb8d7806bf3"},
	{"eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee", "982731671f0cd82cafce8d96a98e7a48"},
	{"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", "baf13e8b16d8c06324d7c9ab32cb7ff0"},
	{"gggggggggggggggggggggggggggggggggggggggggggggggggggggggggggggggg", "8ea3109cbd951bba1ace2f401a784ae4"},
	{"hhhhhhhhhhhhhhhhhhhhhhhhhhhhhhhhhhhhhhhhhhhhhhhhhhhhhhhhhhhhhhhh", "d141045bfb385cad357e7c39c60e5da0"},
	{"", "d41d8cd98f00b204e9800998ecf8427e"},
	{"a", "0cc175b9c0f1b6a831c399e269772661"},
	{"ab", "187ef4436122d1cc2f40dc2b92f0eba0"},
	{"abc", "900150983cd24fb0d6963f7d28e17f72"},
	{"abcd", "e2fc714c4727ee9395f324cd2e7f331f"},
	{"abcde", "ab56b4d92b40713acc5af89985d4b786"},
	{"abcdef", "e80b5017098950fc58aad83c8c14978e"},
	{"abcdefg", "7ac66c0f148de9519b8bd264312c4d64"},
	{"abcdefgh", "e8dc4081b13434b45189a720b77b6818"},
	{"abcdefghi", "8aa99b1f439ff71293e95357bac6fd94"},
	{"abcdefghij", "a925576942e94b2ef57a066101b48876"},
	{"password", "5f4dcc3b5aa765d61d8327deb882cf99"},
	{"Discard medicine more than two years old.", "d747fc1719c7eacb84058196cfe56d57"},
	{"He who has a shady past knows that nice guys finish last.", "bff2dcb37ef3a44ba43ab144768ca837"},
	{"I wouldn't marry him with a ten foot pole.", "0441015ecb54a7342d017ed1bcfdbea5"},
	{"Free! Free!/A trip/to Mars/for 900/empty jars/Burma Shave", "9e3cac8e9e9757a60c3ea391130d3689"},
	{"The days of the digital watch are numbered.  -Tom Stoppard", "a0f04459b031f916a59a35cc482dc039"},
	{"Nepal premier won't resign.", "e7a48e0fe884faf31475d2a04b1362cc"},
	{"For every action there is an equal and opposite government program.", "637d2fe925c07c113800509964fb0e06"},
	{"His money is twice tainted: 'taint yours and 'taint mine.", "834a8d18d5c6562119cf4c7f5086cb71"},
	{"There is no reason for any individual to have a computer in their home. -Ken Olsen, 1977", "de3a4d2fd6c73ec2db2abad23b444281"},
	{"It's a tiny change to the code and not completely disgusting. - Bob Manchek", "acf203f997e2cf74ea3aff86985aefaf"},
	{"size:  a.out:  bad magic", "e1c1384cb4d2221dfdd7c795a4222c9a"},
	{"The major problem is with sendmail.  -Mark Horton", "c90f3ddecc54f34228c063d7525bf644"},
	{"Give me a rock, paper and scissors and I will move the world.  CCFestoon", "cdf7ab6c1fd49bd9933c43f3ea5af185"},
	{"If the enemy is within range, then so are you.", "83bc85234942fc883c063cbd7f0ad5d0"},
	{"It's well we cannot hear the screams/That we create in others' dreams.", "277cbe255686b48dd7e8f389394d9299"},
	{"You remind me of a TV show, but that's all right: I watch it anyway.", "fd3fb0a7ffb8af16603f3d3af98f8e1f"},
	{"C is as portable as Stonehedge!!", "469b13a78ebf297ecda64d4723655154"},
	{"Even if I could be Shakespeare, I think I should still choose to be Faraday. - A. Huxley", "63eb3a2f466410104731c4b037600110"},
	{"The fugacity of a constituent in a mixture of gases at a given temperature is proportional to its mole fraction.  Lewis-Randall Rule", "72c2ed7592debca1c90fc0100f931a2f"},
	{"How can you write a big system without C++?  -Paul Glick", "132f7619d33b523b1d9e5bd8e0928355"},
}

func TestGolden(t *testing.T) {
	for i, g := range golden {
		if got := Sum(g.in).Hex(); got != g.want {
			t.Errorf("TestGolden[%d], got %v, want %v", i, got, g.want)
		}
		if got := fmt.Sprintf("%x", SumBytes([]byte(g.in)).Bytes()); got != g.want {
			t.Errorf("TestGolden[%d] (bytes), got %v, want %v", i, got, g.want)
		}
	}
}

func TestStateWords(t *testing.T) {
	// the words print in canonical order
	s := Sum("abc")
	want := State{0x90015098, 0x3cd24fb0, 0xd6963f7d, 0x28e17f72}
	if s != want {
		t.Fatalf("got %08x, want %08x", s, want)
	}
}

func TestCryptoMd5(t *testing.T) {
	rng := rand.New(rand.NewSource(0xabad1dea))
	for size := 0; size < 4*BlockSize+3; size++ {
		input := make([]byte, size)
		rng.Read(input)
		want := md5.Sum(input)
		if got := SumBytes(input).Bytes(); got != want {
			t.Fatalf("size %d: got %s, want %s", size, hex.EncodeToString(got[:]), hex.EncodeToString(want[:]))
		}
	}
}

func TestNonASCII(t *testing.T) {
	for _, in := range []string{"pässwörd", "密码", "\x00\xff\x80", "🔑🔑🔑"} {
		want := md5.Sum([]byte(in))
		if got := Sum(in).Bytes(); got != want {
			t.Errorf("%q: got %x, want %x", in, got, want)
		}
	}
}

func TestPadding(t *testing.T) {
	for n := 0; n < 3*BlockSize; n++ {
		msg := bytes.Repeat([]byte{'x'}, n)
		p := Pad(msg)

		if len(p)%BlockSize != 0 {
			t.Fatalf("len %d: padded length %d is not a multiple of %d", n, len(p), BlockSize)
		}
		if len(p) < n+9 {
			t.Fatalf("len %d: padded length %d too short", n, len(p))
		}
		if len(p) != PaddedLen(n) {
			t.Fatalf("len %d: Pad gave %d bytes, PaddedLen %d", n, len(p), PaddedLen(n))
		}
		if !bytes.Equal(p[:n], msg) {
			t.Fatalf("len %d: message not preserved", n)
		}
		if p[n] != 0x80 {
			t.Fatalf("len %d: marker byte is %#x", n, p[n])
		}
		for i := n + 1; i < len(p)-8; i++ {
			if p[i] != 0 {
				t.Fatalf("len %d: padding byte %d is %#x", n, i, p[i])
			}
		}
		if bitLen := binary.LittleEndian.Uint64(p[len(p)-8:]); bitLen != uint64(8*n) {
			t.Fatalf("len %d: length suffix %d, want %d", n, bitLen, 8*n)
		}
	}
}

func TestPaddingBoundary(t *testing.T) {
	// 56 bytes = 448 bits needs a full extra block
	for n, want := range map[int]int{0: 64, 55: 64, 56: 128, 63: 128, 64: 128, 119: 128, 120: 192} {
		if got := PaddedLen(n); got != want {
			t.Errorf("PaddedLen(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestPadIntoKeepsTail(t *testing.T) {
	dst := bytes.Repeat([]byte{0xee}, 3*BlockSize)
	n := padInto(dst, "abc")
	if n != BlockSize {
		t.Fatalf("got %d", n)
	}
	for i := n; i < len(dst); i++ {
		if dst[i] != 0xee {
			t.Fatalf("byte %d past the padded length was overwritten", i)
		}
	}
}

func BenchmarkSum(b *testing.B) {
	for _, size := range []int{8, 32, 64, 256} {
		msg := string(bytes.Repeat([]byte{0x61}, size))
		b.Run(fmt.Sprint(size), func(b *testing.B) {
			b.SetBytes(int64(size))
			b.ReportAllocs()
			b.ResetTimer()
			for j := 0; j < b.N; j++ {
				_ = Sum(msg)
			}
		})
	}
}

func BenchmarkCryptoMd5(b *testing.B) {
	for _, size := range []int{8, 32, 64, 256} {
		input := bytes.Repeat([]byte{0x61}, size)
		b.Run(fmt.Sprint(size), func(b *testing.B) {
			b.SetBytes(int64(size))
			b.ReportAllocs()
			b.ResetTimer()
			for j := 0; j < b.N; j++ {
				_ = md5.Sum(input)
			}
		})
	}
}
