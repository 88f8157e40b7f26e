package render

import "siteforge/internal/styleguide"

var packageJSONTmpl = newTemplate("package.json", `{
  "name": "[[.Slug]]",
  "version": "0.1.0",
  "private": true,
  "scripts": {
    "dev": "next dev",
    "build": "next build",
    "start": "next start",
    "lint": "next lint"
  },
  "dependencies": {
    "next": "14.1.0",
    "react": "^18.2.0",
    "react-dom": "^18.2.0"
  },
  "devDependencies": {
    "@types/node": "^20",
    "@types/react": "^18",
    "@types/react-dom": "^18",
    "autoprefixer": "^10.0.1",
    "postcss": "^8",
    "tailwindcss": "^3.3.0",
    "typescript": "^5"
  }
}
`)

func PackageJSON(slug string) string {
	return execute(packageJSONTmpl, struct{ Slug string }{Slug: slug})
}

const tsConfigSource = `{
  "compilerOptions": {
    "target": "es5",
    "lib": ["dom", "dom.iterable", "esnext"],
    "allowJs": true,
    "skipLibCheck": true,
    "strict": true,
    "noEmit": true,
    "esModuleInterop": true,
    "module": "esnext",
    "moduleResolution": "bundler",
    "resolveJsonModule": true,
    "isolatedModules": true,
    "jsx": "preserve",
    "incremental": true
  },
  "include": ["**/*.ts", "**/*.tsx"],
  "exclude": ["node_modules"]
}
`

func TSConfig() string {
	return tsConfigSource
}

var tailwindTmpl = newTemplate("tailwind.config.js", `/** @type {import('tailwindcss').Config} */
module.exports = {
  content: [
    './pages/**/*.{js,ts,jsx,tsx}',
    './components/**/*.{js,ts,jsx,tsx}',
  ],
  theme: {
    extend: {
      colors: {
        primary: '[[.Primary]]',
        secondary: '[[.Secondary]]',
        accent: '[[.Accent]]',
        text: '[[.Text]]',
        background: '[[.Background]]',
      },
    },
  },
  plugins: [],
};
`)

// TailwindConfig emits the color tokens straight from the normalized palette.
func TailwindConfig(c styleguide.Colors) string {
	return execute(tailwindTmpl, c)
}

const postCSSSource = `module.exports = {
  plugins: {
    tailwindcss: {},
    autoprefixer: {},
  },
};
`

func PostCSSConfig() string {
	return postCSSSource
}

var globalCSSTmpl = newTemplate("globals.css", `@tailwind base;
@tailwind components;
@tailwind utilities;

@layer base {
  :root {
    --primary: [[.Colors.Primary]];
    --secondary: [[.Colors.Secondary]];
    --accent: [[.Colors.Accent]];
    --text: [[.Colors.Text]];
    --background: [[.Colors.Background]];
    --font-headings: [[.Typography.Headings]];
    --font-body: [[.Typography.Body]];
  }

  body {
    background-color: var(--background);
    color: var(--text);
    font-family: var(--font-body);
    font-feature-settings: 'rlig' 1, 'calt' 1;
  }

  h1, h2, h3, h4, h5, h6 {
    font-family: var(--font-headings);
  }
}
`)

// GlobalCSS emits the Tailwind directives plus custom properties for every
// color role and font stack in the guide.
func GlobalCSS(g styleguide.Normalized) string {
	return execute(globalCSSTmpl, g)
}

var readmeTmpl = newTemplate("README.md", `# [[.BusinessName]]

Generated Next.js site.

## Pages
[[range .Pages]]- [[.]]
[[end]]
## Development

` + "```" + `
npm install
npm run dev
` + "```" + `
`)

func Readme(businessName string, pages []string) string {
	return execute(readmeTmpl, struct {
		BusinessName string
		Pages        []string
	}{BusinessName: businessName, Pages: pages})
}

const gitignoreSource = `node_modules/
.next/
out/
*.log
.env*.local
.DS_Store
`

func Gitignore() string {
	return gitignoreSource
}
