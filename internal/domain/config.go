package domain

// CodecMimeType — MIME-тип кодека.
type CodecMimeType string

const (
	CodecAudioAAC   CodecMimeType = "audio/mp4a-latm"
	CodecVideoAVC   CodecMimeType = "video/avc"
	CodecVideoMPEG4 CodecMimeType = "video/mp4v-es"
)

// ContainerFormat — формат контейнера выходного файла.
type ContainerFormat string

const (
	ContainerMPEG4 ContainerFormat = "mp4"
	ContainerM4A   ContainerFormat = "m4a"
)

// AudioSourceType — источник аудио.
type AudioSourceType int

const (
	AudioSourceDefault AudioSourceType = 0
	AudioSourceMic     AudioSourceType = 1
)

// VideoSourceType — источник видео (поверхность камеры).
type VideoSourceType int

const (
	// VideoSourceSurfaceYUV — кадры YUV, кодирует рекордер.
	VideoSourceSurfaceYUV VideoSourceType = 0
	// VideoSourceSurfaceES — уже закодированный поток от камеры.
	VideoSourceSurfaceES VideoSourceType = 1
)

// CameraFormat — формат кадров камеры.
type CameraFormat int

const (
	CameraFormatRGBA8888  CameraFormat = 3
	CameraFormatYUV420SP  CameraFormat = 1003
	CameraFormatJPEG      CameraFormat = 2000
	CameraFormatEncodedES CameraFormat = 4000
)

// Size — размер кадра.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// CameraProfile — профиль выхода камеры (формат + размер).
type CameraProfile struct {
	Format CameraFormat `json:"format"`
	Size   Size         `json:"size"`
}

// Location — географическая метка, записываемая в контейнер.
type Location struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// AVProfile — параметры кодирования.
//
// Нулевые поля аудио означают конфигурацию без аудио-дорожки,
// пустой VideoCodec — без видео-дорожки.
type AVProfile struct {
	AudioBitrate     int             `json:"audio_bitrate,omitempty" yaml:"audio_bitrate,omitempty"`
	AudioChannels    int             `json:"audio_channels,omitempty" yaml:"audio_channels,omitempty"`
	AudioCodec       CodecMimeType   `json:"audio_codec,omitempty" yaml:"audio_codec,omitempty"`
	AudioSampleRate  int             `json:"audio_sample_rate,omitempty" yaml:"audio_sample_rate,omitempty"`
	FileFormat       ContainerFormat `json:"file_format" yaml:"file_format"`
	VideoBitrate     int             `json:"video_bitrate,omitempty" yaml:"video_bitrate,omitempty"`
	VideoCodec       CodecMimeType   `json:"video_codec,omitempty" yaml:"video_codec,omitempty"`
	VideoFrameWidth  int             `json:"video_frame_width,omitempty" yaml:"video_frame_width,omitempty"`
	VideoFrameHeight int             `json:"video_frame_height,omitempty" yaml:"video_frame_height,omitempty"`
	VideoFrameRate   int             `json:"video_frame_rate,omitempty" yaml:"video_frame_rate,omitempty"`
}

// HasAudio возвращает true, если профиль содержит аудио-дорожку.
func (p AVProfile) HasAudio() bool {
	return p.AudioCodec != ""
}

// HasVideo возвращает true, если профиль содержит видео-дорожку.
func (p AVProfile) HasVideo() bool {
	return p.VideoCodec != ""
}

// AVConfig — конфигурация, передаваемая в prepare.
type AVConfig struct {
	AudioSourceType *AudioSourceType `json:"audio_source_type,omitempty"`
	VideoSourceType *VideoSourceType `json:"video_source_type,omitempty"`
	Profile         AVProfile        `json:"profile"`
	URL             string           `json:"url"`
	Rotation        int              `json:"rotation"`
	Location        Location         `json:"location"`
}

// HasVideo возвращает true, если конфигурация требует входную поверхность.
func (c AVConfig) HasVideo() bool {
	return c.VideoSourceType != nil && c.Profile.HasVideo()
}

// Clone возвращает независимую копию конфигурации.
func (c AVConfig) Clone() AVConfig {
	out := c
	if c.AudioSourceType != nil {
		v := *c.AudioSourceType
		out.AudioSourceType = &v
	}
	if c.VideoSourceType != nil {
		v := *c.VideoSourceType
		out.VideoSourceType = &v
	}
	return out
}

// Значения по умолчанию из набора функциональных кейсов.
const (
	DefaultAudioBitrate    = 48000
	DefaultAudioChannels   = 2
	DefaultAudioSampleRate = 48000
	DefaultVideoBitrate    = 2000000
	DefaultFrameRate       = 30
	DefaultURL             = "fd://"
)

// DefaultLocation — метка местоположения по умолчанию.
var DefaultLocation = Location{Latitude: 30, Longitude: 130}

// DefaultAVConfig возвращает аудио+видео конфигурацию 640x480 AVC + AAC.
func DefaultAVConfig() AVConfig {
	audio := AudioSourceMic
	video := VideoSourceSurfaceYUV
	return AVConfig{
		AudioSourceType: &audio,
		VideoSourceType: &video,
		Profile: AVProfile{
			AudioBitrate:     DefaultAudioBitrate,
			AudioChannels:    DefaultAudioChannels,
			AudioCodec:       CodecAudioAAC,
			AudioSampleRate:  DefaultAudioSampleRate,
			FileFormat:       ContainerMPEG4,
			VideoBitrate:     DefaultVideoBitrate,
			VideoCodec:       CodecVideoAVC,
			VideoFrameWidth:  640,
			VideoFrameHeight: 480,
			VideoFrameRate:   DefaultFrameRate,
		},
		URL:      DefaultURL,
		Location: DefaultLocation,
	}
}

// DefaultVideoConfig возвращает конфигурацию только с видео-дорожкой.
func DefaultVideoConfig() AVConfig {
	video := VideoSourceSurfaceYUV
	return AVConfig{
		VideoSourceType: &video,
		Profile: AVProfile{
			FileFormat:       ContainerMPEG4,
			VideoBitrate:     DefaultVideoBitrate,
			VideoCodec:       CodecVideoAVC,
			VideoFrameWidth:  640,
			VideoFrameHeight: 480,
			VideoFrameRate:   DefaultFrameRate,
		},
		URL:      DefaultURL,
		Location: DefaultLocation,
	}
}

// DefaultAudioConfig возвращает конфигурацию только с аудио-дорожкой.
func DefaultAudioConfig() AVConfig {
	audio := AudioSourceMic
	return AVConfig{
		AudioSourceType: &audio,
		Profile: AVProfile{
			AudioBitrate:    DefaultAudioBitrate,
			AudioChannels:   DefaultAudioChannels,
			AudioCodec:      CodecAudioAAC,
			AudioSampleRate: DefaultAudioSampleRate,
			FileFormat:      ContainerMPEG4,
		},
		URL:      DefaultURL,
		Location: DefaultLocation,
	}
}
