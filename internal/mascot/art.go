package mascot

import "strings"

var drawings = map[Asset]string{
	AssetS1: `
  /\_/\   ___
 ( o.o ) |   |
  > ^ <  |___|
 /|   |\  ===
`,
	AssetS2: `
  /\_/\
 ( -.- )  _____
 /  ~  \ /____/
(__|_|__)
`,
	AssetS3: `
  /\_/\  ?
 ( o.O )
 (  >  )__/
  \_|_|
`,
	AssetR1: `
   |\      _,,,---,,_
   /,.-'   -'  -.  ;-;;,_
  |,4-  ) )-,_..;\ (  '-'
 '---''(_/--'  '-'\_)
`,
	AssetR2: `
  /\_/\
 ( =.= )  z
  )   (    z
 (__ __)~~
`,
	AssetR3: `
      /\_/\
 ____/ o o \
/~____  =^= /
(______)__m_m)
`,
	AssetR4: `
  /\_/\  ~
 ( ^.^ ) o
  > ~ <_/
 (_)-(_)
`,
	AssetAlmostDone: `
  /\_/\   almost
 ( 0.0 )  there!
  > ! <
 /|___|\
`,
	AssetEndOfStudy: `
  /\_/\   \o/
 ( ^o^ )
 /|   |\  done!
(_|___|_)
`,
	AssetHalfwayBreak: `
  /\_/\
 ( o.- )  halfway...
  )   (
 (__ __)
`,
	AssetEndOfBreak: `
  /\_/\   back to
 ( O.O )  work!
  > ^ <
 /|   |\
`,
}

var captions = map[Asset]string{
	AssetAlmostDone:   "Almost Done!",
	AssetEndOfStudy:   "Study Done!",
	AssetHalfwayBreak: "Halfway Through the Break",
	AssetEndOfBreak:   "Break Over!",
}

// Art returns the ASCII drawing for a, without leading or trailing newlines.
// Unknown assets render as an empty string.
func Art(a Asset) string {
	return strings.Trim(drawings[a], "\n")
}

// Caption returns the short description of a.
func Caption(a Asset) string {
	if c, ok := captions[a]; ok {
		return c
	}
	for _, s := range StudyAssets {
		if s == a {
			return "Studying Cat"
		}
	}
	return "Resting Cat"
}
