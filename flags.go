package pixcodec

// ChannelID identifies a color plane. Codecs always process planes in ascending
// ChannelID order; the dictionary codec depends on it.
type ChannelID int

const (
	ChannelRed ChannelID = iota
	ChannelGreen
	ChannelBlue
)

// NumChannels is the number of color planes in every image handled here.
const NumChannels = 3

// ChannelOrder lists every channel in the order codecs read and write them.
var ChannelOrder = [NumChannels]ChannelID{ChannelRed, ChannelGreen, ChannelBlue}

func (c ChannelID) String() string {
	switch c {
	case ChannelRed:
		return "red"
	case ChannelGreen:
		return "green"
	case ChannelBlue:
		return "blue"
	}
	return "unknown"
}
