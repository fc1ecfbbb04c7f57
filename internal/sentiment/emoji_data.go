package sentiment

// emojiValences returns the emoji sentiment dataset: glyph to signed
// weight in [-5, 5], derived from occurrence polarity in the Emoji
// Sentiment Ranking corpus. Keys carry no variation selectors.
func emojiValences() map[string]float64 {
	return map[string]float64{
		// Faces, positive
		"😀": 3.1,
		"😃": 3.2,
		"😄": 3.4,
		"😁": 3.0,
		"😆": 2.8,
		"😊": 3.3,
		"🙂": 1.6,
		"😉": 2.2,
		"😍": 3.7,
		"🥰": 3.8,
		"😘": 3.4,
		"🤗": 2.9,
		"😎": 2.4,
		"🤩": 3.5,
		"😇": 2.7,
		"🙃": 0.8,
		"😋": 2.6,
		"🤤": 1.2,
		"😂": 2.2,
		"🤣": 2.3,
		"😅": 1.0,
		"😌": 1.9,
		"🥳": 3.3,

		// Faces, neutral or ambiguous
		"😐": 0.0,
		"😑": -0.4,
		"🤔": 0.0,
		"😶": -0.2,
		"🙄": -1.4,
		"😏": 0.4,
		"😬": -0.8,
		"🤨": -0.6,
		"😮": 0.3,
		"😯": 0.2,
		"😴": -0.3,
		"🥱": -0.7,
		"🤯": 0.5,
		"🫠": -0.5,

		// Faces, negative
		"😒": -1.8,
		"😞": -2.4,
		"😔": -2.2,
		"😟": -2.3,
		"😕": -1.7,
		"🙁": -1.9,
		"😣": -2.0,
		"😖": -2.1,
		"😫": -2.3,
		"😩": -2.2,
		"😢": -2.6,
		"😭": -2.8,
		"😤": -1.6,
		"😠": -3.0,
		"😡": -3.4,
		"🤬": -3.8,
		"😨": -2.4,
		"😰": -2.3,
		"😥": -1.9,
		"😱": -2.1,
		"🤢": -3.0,
		"🤮": -3.2,
		"😷": -1.2,
		"🤒": -1.8,
		"🤕": -1.9,
		"💀": -1.5,
		"😈": -0.9,
		"🤡": -1.1,

		// Hands and gestures
		"👍": 2.8,
		"👎": -2.4,
		"👏": 2.7,
		"🙌": 3.0,
		"👌": 2.3,
		"✌": 2.0,
		"🤞": 1.5,
		"🤝": 2.4,
		"💪": 2.6,
		"🙏": 2.1,
		"✋": 0.4,
		"👊": 1.2,
		"🖕": -3.6,
		"🤷": -0.3,
		"🤦": -1.6,

		// Hearts and symbols
		"❤": 3.6,
		"🧡": 3.2,
		"💛": 3.2,
		"💚": 3.2,
		"💙": 3.2,
		"💜": 3.2,
		"🖤": 0.6,
		"💔": -3.1,
		"💕": 3.4,
		"💖": 3.5,
		"💗": 3.3,
		"💯": 3.1,
		"✨": 2.5,
		"⭐": 2.4,
		"🌟": 2.7,
		"🔥": 2.6,
		"💥": 1.0,
		"⚡": 1.4,
		"💤": -0.2,
		"💩": -2.2,
		"❌": -2.0,
		"⛔": -1.8,
		"🚫": -1.9,
		"⚠": -1.3,
		"✅": 2.5,
		"☑": 1.9,
		"❗": -0.5,
		"❓": -0.3,

		// Celebration and objects
		"🎉": 3.4,
		"🎊": 3.2,
		"🎈": 2.4,
		"🏆": 3.0,
		"🥇": 2.9,
		"🎁": 2.7,
		"🚀": 2.8,
		"💰": 1.8,
		"👀": 0.3,
		"🙈": 1.1,
		"🐛": -0.9,
		"🌈": 2.6,
		"☀": 2.3,
		"🌧": -1.1,
		"⛈": -1.5,
	}
}
