package yeelight

// Power is the bulb power state
type Power string

// Power states
const (
	PowerOn  Power = `on`
	PowerOff Power = `off`
)

// Effect specifies how a change is applied.  With EffectSudden the bulb
// jumps directly to the target value and the duration parameter is ignored;
// with EffectSmooth it transitions gradually over the given duration.
type Effect string

// Effects
const (
	EffectSudden Effect = `sudden`
	EffectSmooth Effect = `smooth`
)

// Mode selects which mode the bulb turns on into
type Mode int

// Modes
const (
	ModeNormal     Mode = 0
	ModeCT         Mode = 1
	ModeRGB        Mode = 2
	ModeHSV        Mode = 3
	ModeColorFlow  Mode = 4
	ModeNightLight Mode = 5
)

// Property is a bulb property name, as used by get_prop and reported in
// notifications
type Property string

// Properties understood by get_prop.  The bg_ entries refer to the
// background light on models that have one.
const (
	PropertyPower            Property = `power`
	PropertyBright           Property = `bright`
	PropertyCT               Property = `ct`
	PropertyRGB              Property = `rgb`
	PropertyHue              Property = `hue`
	PropertySat              Property = `sat`
	PropertyColorMode        Property = `color_mode`
	PropertyFlowing          Property = `flowing`
	PropertyDelayOff         Property = `delayoff`
	PropertyFlowParams       Property = `flow_params`
	PropertyMusicOn          Property = `music_on`
	PropertyName             Property = `name`
	PropertyBgPower          Property = `bg_power`
	PropertyBgFlowing        Property = `bg_flowing`
	PropertyBgFlowParams     Property = `bg_flow_params`
	PropertyBgCT             Property = `bg_ct`
	PropertyBgColorMode      Property = `bg_lmode`
	PropertyBgBright         Property = `bg_bright`
	PropertyBgRGB            Property = `bg_rgb`
	PropertyBgHue            Property = `bg_hue`
	PropertyBgSat            Property = `bg_sat`
	PropertyNightLightBright Property = `nl_br`
	PropertyActiveMode       Property = `active_mode`
)

// Class selects the scene class for set_scene
type Class string

// Scene classes
const (
	ClassColor        Class = `color`
	ClassHSV          Class = `hsv`
	ClassCT           Class = `ct`
	ClassColorFlow    Class = `cf`
	ClassAutoDelayOff Class = `auto_delay_off`
)

// CronType identifies a timer job type.  The protocol currently defines
// only the power-off timer.
type CronType int

// Cron job types
const (
	CronTypeOff CronType = 0
)

// FlowAction is the state the bulb recovers to after a color flow ends
type FlowAction int

// Flow end actions
const (
	FlowActionRecover FlowAction = 0
	FlowActionStay    FlowAction = 1
	FlowActionOff     FlowAction = 2
)

// AdjustAction is the direction of a set_adjust change
type AdjustAction string

// Adjustment directions.  AdjustActionCircle is the only valid action when
// adjusting color.
const (
	AdjustActionIncrease AdjustAction = `increase`
	AdjustActionDecrease AdjustAction = `decrease`
	AdjustActionCircle   AdjustAction = `circle`
)

// AdjustProp is the property targeted by set_adjust
type AdjustProp string

// Adjustable properties
const (
	AdjustPropBright AdjustProp = `bright`
	AdjustPropCT     AdjustProp = `ct`
	AdjustPropColor  AdjustProp = `color`
)
