// SPDX-License-Identifier: EPL-2.0

package vorbis_test

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ik5/audstream/formats/vorbis"
)

func ExampleDecoder_Decode_errorHandling() {
	_, err := vorbis.Decoder{}.Decode(strings.NewReader("OggS but not really"))
	fmt.Println(errors.Is(err, vorbis.ErrInvalidStream))
	// Output: true
}
