// SPDX-License-Identifier: EPL-2.0

package mp3_test

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ik5/audstream/formats/mp3"
)

func ExampleDecoder_Decode_errorHandling() {
	_, err := mp3.Decoder{}.Decode(strings.NewReader("definitely not mpeg audio"))
	fmt.Println(errors.Is(err, mp3.ErrInvalidStream))
	// Output: true
}
