package shader

// ScreenVertexShader maps the full-screen quad of renderer.ScreenFillingSquare
// to clip space and passes texture coordinates in frag_uv.
const ScreenVertexShader = `#version 410 core
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

// DefaultFragmentShader writes opaque white to the "colour" output.
const DefaultFragmentShader = `#version 410 core
out vec4 colour;
void main() { colour = vec4(1.0); }
`

// BlitFragmentShader copies u_texture to the "colour" output.
const BlitFragmentShader = `#version 410 core
in vec2 frag_uv;
out vec4 colour;
uniform sampler2D u_texture;
void main() { colour = texture(u_texture, frag_uv); }
`

// BlitFragmentShaderFlip is BlitFragmentShader with the v coordinate flipped.
const BlitFragmentShaderFlip = `#version 410 core
in vec2 frag_uv;
out vec4 colour;
uniform sampler2D u_texture;
void main() { colour = texture(u_texture, vec2(frag_uv.x, 1.0 - frag_uv.y)); }
`

// NormalsFragmentShader visualizes a world-space normal texture.
const NormalsFragmentShader = `#version 410 core
uniform sampler2D worldNormalTexture;
uniform vec2 inverseScreenSize;
out vec4 colour;
void main() {
    vec2 tex = gl_FragCoord.xy * inverseScreenSize;
    vec3 normal = texture(worldNormalTexture, tex).xyz;
    colour = vec4(0.5 * (vec3(1.0) + normalize(normal)), 1.0);
}
`
